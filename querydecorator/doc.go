// Package querydecorator layers connection scoping, retries, result caching
// and query logging around a data access function without changing it.
//
// Each stage is a plain function that takes the next Func and returns a new
// one. They can be stacked by hand:
//
//	fetch := querydecorator.CacheQuery(svc,
//		querydecorator.RetryOnFailure(policy,
//			querydecorator.WithConnection(s, fetchUsers)))
//
// or assembled by Compose, which applies the documented order:
//
//	fetch := querydecorator.Compose(s, fetchUsers,
//		querydecorator.WithLogging(logger),
//		querydecorator.WithCache(svc),
//		querydecorator.WithRetry(retry.Policy{Attempts: 3, Delay: time.Second}),
//	)
//
//	rows, err := fetch(ctx, querydecorator.NamedQuery("SELECT * FROM users"))
//
// The order matters. The cache sits outside the retry loop, so only the final
// successful attempt is stored and a hit skips both the retries and the
// connection. The default puts the scope inside the retry loop, opening a new
// handle per attempt; ReuseConnection keeps one handle for all attempts.
//
// # Cache keys
//
// CacheQuery keys entries by the literal query text found in the call (see
// cache.QueryKey). Arguments bound to placeholders are not part of the key:
// the same text with different arguments returns the first stored result.
// Calls without recognisable query text are never cached.
package querydecorator
