// Package retry re-runs a failing operation a bounded number of times with a
// fixed delay between attempts.
//
//	rows, err := retry.Do(ctx, retry.Policy{Attempts: 3, Delay: time.Second},
//		func(ctx context.Context) (store.ResultSet, error) {
//			return store.FetchAll(ctx, handle, "SELECT * FROM users")
//		})
//
// The attempt counter lives in a single Do call. Only the operation is
// retried: when Do runs inside a scope.Scope every attempt sees the same
// handle.
package retry
