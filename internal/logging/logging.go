// Package logging builds the slog logger shared by the decorators, the store
// and the demo command.
package logging

import (
	"io"
	"log/slog"
	"os"

	goerrors "github.com/goliatone/go-errors"
)

// Options configures the logger returned by New.
type Options struct {
	// Verbose enables debug level output (per statement timings, cache hits).
	Verbose bool
	// Writer receives log output; defaults to os.Stderr when nil.
	Writer io.Writer
}

// New constructs a text slog.Logger.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything. Used as the default when a
// component is built without one.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns logger, or Discard() when logger is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// ErrorAttrs flattens err into slog arguments. Rich go-errors values
// contribute their category, severity and metadata.
func ErrorAttrs(err error) []any {
	if err == nil {
		return nil
	}
	args := []any{slog.String("error", err.Error())}
	for _, attr := range goerrors.ToSlogAttributes(err) {
		args = append(args, attr)
	}
	return args
}
