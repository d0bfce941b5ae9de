// Package scope ties the lifetime of a database handle to a single call.
//
// A Scope is built once around an Opener and then used for any number of
// calls. Every Run opens a fresh Handle, passes it to the operation and closes
// it when the operation returns, fails or panics:
//
//	s := scope.New(opener, scope.WithName("users.db"), scope.WithLogger(logger))
//
//	user, err := scope.With(ctx, s, func(ctx context.Context, h scope.Handle) (store.Row, error) {
//		return store.FetchOne(ctx, h, "SELECT * FROM users WHERE id = ?", 1)
//	})
//
// Extra arguments reach the operation through the closure.
//
// Acquisition failures are reported as *AcquireError (go-errors category
// external). Close failures are logged at warn level and never replace the
// operation's result.
package scope
