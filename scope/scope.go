package scope

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/goliatone/go-query-decorators/internal/logging"
)

// Handle is an open connection owned by a single Run call.
type Handle interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// Opener acquires a fresh Handle.
type Opener interface {
	Open(ctx context.Context) (Handle, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context) (Handle, error)

// Open calls f(ctx).
func (f OpenerFunc) Open(ctx context.Context) (Handle, error) {
	return f(ctx)
}

// Option configures a Scope.
type Option func(*Scope)

// WithLogger sets the logger used for acquire/release events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scope) {
		s.logger = logger
	}
}

// WithName labels the scope in logs and errors, e.g. the database path.
func WithName(name string) Option {
	return func(s *Scope) {
		s.name = name
	}
}

// Scope acquires one handle per call and releases it on every exit path.
// A Scope is safe for concurrent use; concurrent calls never share a handle.
type Scope struct {
	opener Opener
	logger *slog.Logger
	name   string
}

// New returns a Scope that acquires handles from opener.
func New(opener Opener, opts ...Option) *Scope {
	s := &Scope{
		opener: opener,
		name:   "default",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger).With(slog.String("scope", s.name))
	return s
}

// Name returns the scope label.
func (s *Scope) Name() string {
	return s.name
}

// Run acquires a handle, calls op with it and closes the handle afterwards.
// If acquisition fails op is not called and an *AcquireError is returned.
// op's error is returned unchanged. A failure to close is logged and dropped.
func (s *Scope) Run(ctx context.Context, op func(ctx context.Context, h Handle) error) error {
	h, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer s.release(ctx, h)

	return op(ctx, h)
}

// With is Run for operations that produce a value.
func With[T any](ctx context.Context, s *Scope, op func(ctx context.Context, h Handle) (T, error)) (T, error) {
	var result T
	err := s.Run(ctx, func(ctx context.Context, h Handle) error {
		v, err := op(ctx, h)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

func (s *Scope) acquire(ctx context.Context) (Handle, error) {
	if s.opener == nil {
		return nil, newAcquireError(s.name, errNoOpener)
	}

	h, err := s.opener.Open(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "connection acquire failed", logging.ErrorAttrs(err)...)
		return nil, newAcquireError(s.name, err)
	}
	if h == nil {
		return nil, newAcquireError(s.name, errNilHandle)
	}

	s.logger.DebugContext(ctx, "connection acquired")
	return h, nil
}

func (s *Scope) release(ctx context.Context, h Handle) {
	if err := h.Close(); err != nil {
		s.logger.WarnContext(ctx, "connection close failed", logging.ErrorAttrs(err)...)
		return
	}
	s.logger.DebugContext(ctx, "connection released")
}
