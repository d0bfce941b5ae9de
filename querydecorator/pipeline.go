package querydecorator

import (
	"log/slog"

	"github.com/goliatone/go-query-decorators/cache"
	"github.com/goliatone/go-query-decorators/retry"
	"github.com/goliatone/go-query-decorators/scope"
)

// Option enables a stage in Compose.
type Option func(*pipeline)

type pipeline struct {
	logger *slog.Logger
	cache  cache.CacheService
	policy *retry.Policy
	reuse  bool
}

// WithLogging adds the LogQueries stage.
func WithLogging(logger *slog.Logger) Option {
	return func(p *pipeline) {
		p.logger = logger
	}
}

// WithCache adds the CacheQuery stage backed by svc.
func WithCache(svc cache.CacheService) Option {
	return func(p *pipeline) {
		p.cache = svc
	}
}

// WithRetry adds the RetryOnFailure stage.
func WithRetry(policy retry.Policy) Option {
	return func(p *pipeline) {
		p.policy = &policy
	}
}

// ReuseConnection moves the retry stage inside the connection scope, so all
// attempts share one handle.
func ReuseConnection() Option {
	return func(p *pipeline) {
		p.reuse = true
	}
}

// Compose wraps op in the enabled stages. The order, outermost first, is
//
//	LogQueries -> CacheQuery -> RetryOnFailure -> WithConnection -> op
//
// so a cache hit opens no connection and every retry of a failed operation
// opens a fresh one. A failure to open the connection is returned at once and
// is never retried. With ReuseConnection the order becomes
//
//	LogQueries -> CacheQuery -> WithConnection -> RetryOnFailure -> op
//
// Only the final successful result is cached in either order.
func Compose[T any](s *scope.Scope, op ScopedFunc[T], opts ...Option) Func[T] {
	p := &pipeline{}
	for _, opt := range opts {
		opt(p)
	}

	var fn Func[T]
	switch {
	case p.policy != nil && p.reuse:
		fn = WithConnection(s, RetryWithHandle(*p.policy, op))
	case p.policy != nil:
		fn = RetryOnFailure(*p.policy, WithConnection(s, op))
	default:
		fn = WithConnection(s, op)
	}

	if p.cache != nil {
		fn = CacheQuery(p.cache, fn)
	}
	if p.logger != nil {
		fn = LogQueries(p.logger, fn)
	}
	return fn
}
