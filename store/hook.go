package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-query-decorators/internal/logging"
)

// QueryLogger is a bun.QueryHook that logs each formatted statement.
type QueryLogger struct {
	logger *slog.Logger
}

var _ bun.QueryHook = (*QueryLogger)(nil)

// NewQueryLogger returns a hook writing to logger.
func NewQueryLogger(logger *slog.Logger) *QueryLogger {
	return &QueryLogger{logger: logging.OrDiscard(logger)}
}

func (h *QueryLogger) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	attrs := []any{
		slog.String("operation", event.Operation()),
		slog.String("query", event.Query),
		slog.Duration("duration", time.Since(event.StartTime)),
	}

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.logger.WarnContext(ctx, "statement failed", append(attrs, logging.ErrorAttrs(event.Err)...)...)
		return
	}
	h.logger.DebugContext(ctx, "statement executed", attrs...)
}
