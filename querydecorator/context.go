package querydecorator

import (
	"context"

	"github.com/google/uuid"
)

type callIDContextKey struct{}

// WithCallID attaches a call id to ctx. LogQueries reuses an existing id and
// generates one otherwise.
func WithCallID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, callIDContextKey{}, id)
}

// CallIDFromContext returns the call id attached to ctx, if any.
func CallIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(callIDContextKey{}).(string)
	return id, ok && id != ""
}

func ensureCallID(ctx context.Context) (context.Context, string) {
	if id, ok := CallIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithCallID(ctx, id), id
}
