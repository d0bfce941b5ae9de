package querydecorator

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-query-decorators/cache"
	"github.com/goliatone/go-query-decorators/internal/logging"
	"github.com/goliatone/go-query-decorators/retry"
	"github.com/goliatone/go-query-decorators/scope"
)

// Func is a decorated operation.
type Func[T any] func(ctx context.Context, call Call) (T, error)

// ScopedFunc is an operation that needs an open handle.
type ScopedFunc[T any] func(ctx context.Context, h scope.Handle, call Call) (T, error)

// Bind fixes the arguments of fn, producing a function suitable for Gather.
func Bind[T any](fn Func[T], call Call) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return fn(ctx, call)
	}
}

// WithConnection opens a handle from s for each invocation, passes it to op
// and closes it afterwards, whatever op returns.
func WithConnection[T any](s *scope.Scope, op ScopedFunc[T]) Func[T] {
	return func(ctx context.Context, call Call) (T, error) {
		return scope.With(ctx, s, func(ctx context.Context, h scope.Handle) (T, error) {
			return op(ctx, h, call)
		})
	}
}

// RetryOnFailure re-invokes next according to p. A failure to open a
// connection is never retried: it is returned as is on the attempt that hit
// it, whatever p.Retryable says.
func RetryOnFailure[T any](p retry.Policy, next Func[T]) Func[T] {
	p.Retryable = skipAcquireErrors(p.Retryable)
	return func(ctx context.Context, call Call) (T, error) {
		return retry.Do(ctx, p, func(ctx context.Context) (T, error) {
			return next(ctx, call)
		})
	}
}

// RetryWithHandle is RetryOnFailure for operations that already hold a
// handle. Every attempt reuses h.
func RetryWithHandle[T any](p retry.Policy, op ScopedFunc[T]) ScopedFunc[T] {
	return func(ctx context.Context, h scope.Handle, call Call) (T, error) {
		return retry.Do(ctx, p, func(ctx context.Context) (T, error) {
			return op(ctx, h, call)
		})
	}
}

func skipAcquireErrors(retryable func(error) bool) func(error) bool {
	if retryable == nil {
		retryable = retry.DefaultRetryable
	}
	return func(err error) bool {
		if scope.IsAcquireError(err) {
			return false
		}
		return retryable(err)
	}
}

// CacheQuery returns the stored result when the call's query text was seen
// before, and runs next otherwise. Calls without query text always run next.
// Failed runs are not stored.
func CacheQuery[T any](svc cache.CacheService, next Func[T]) Func[T] {
	if svc == nil {
		return next
	}
	return func(ctx context.Context, call Call) (T, error) {
		key, ok := call.Query()
		if !ok {
			return next(ctx, call)
		}
		return cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (T, error) {
			return next(ctx, call)
		})
	}
}

// LogQueries logs the call's query text at info before running next, and the
// outcome at debug afterwards. Each invocation gets a call_id.
func LogQueries[T any](logger *slog.Logger, next Func[T]) Func[T] {
	logger = logging.OrDiscard(logger)
	return func(ctx context.Context, call Call) (T, error) {
		ctx, callID := ensureCallID(ctx)
		log := logger.With(slog.String("call_id", callID))

		if query, ok := call.Query(); ok {
			log.InfoContext(ctx, "executing SQL query",
				slog.String("query", query),
				slog.String("fingerprint", cache.Fingerprint(query)),
			)
		} else {
			log.InfoContext(ctx, "executing function, no SQL query found in args")
		}

		start := time.Now()
		result, err := next(ctx, call)
		if err != nil {
			log.DebugContext(ctx, "call failed",
				append([]any{slog.Duration("duration", time.Since(start))}, logging.ErrorAttrs(err)...)...)
			return result, err
		}
		log.DebugContext(ctx, "call finished", slog.Duration("duration", time.Since(start)))
		return result, nil
	}
}
