package querydecorator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gather runs fns concurrently and returns their results in argument order.
// The first failure cancels the context passed to the others and is returned.
func Gather[T any](ctx context.Context, fns ...func(ctx context.Context) (T, error)) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]T, len(fns))

	for i, fn := range fns {
		g.Go(func() error {
			v, err := fn(ctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
