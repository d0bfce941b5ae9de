package store

import (
	"context"

	"github.com/goliatone/go-query-decorators/scope"
)

// ExecuteQuery opens a handle from s, runs query with args and returns the
// rows. The handle is closed before ExecuteQuery returns.
func ExecuteQuery(ctx context.Context, s *scope.Scope, query string, args ...any) (ResultSet, error) {
	return scope.With(ctx, s, func(ctx context.Context, h scope.Handle) (ResultSet, error) {
		return FetchAll(ctx, h, query, args...)
	})
}
