package querydecorator

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-query-decorators/scope"
	"github.com/goliatone/go-query-decorators/store"
)

// ErrNoQuery is returned by FetchAll and FetchOne when the call carries no
// SQL text.
var ErrNoQuery = goerrors.New("call carries no SQL query", goerrors.CategoryBadInput)

// FetchAll runs the call's query with its remaining positional arguments.
func FetchAll(ctx context.Context, h scope.Handle, call Call) (store.ResultSet, error) {
	query, ok := call.Query()
	if !ok {
		return nil, ErrNoQuery
	}
	return store.FetchAll(ctx, h, query, call.QueryArgs()...)
}

// FetchOne is FetchAll limited to the first row.
func FetchOne(ctx context.Context, h scope.Handle, call Call) (store.Row, error) {
	query, ok := call.Query()
	if !ok {
		return nil, ErrNoQuery
	}
	return store.FetchOne(ctx, h, query, call.QueryArgs()...)
}
