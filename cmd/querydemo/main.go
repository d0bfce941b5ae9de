// Package main implements the querydemo CLI, a walk through the query
// decorators against a local users database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/goliatone/go-query-decorators/internal/config"
	"github.com/goliatone/go-query-decorators/internal/logging"
	"github.com/goliatone/go-query-decorators/pkg/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parse(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	cmd, ok := lookup(opts.Command)
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", opts.Command)
		return 1
	}

	cfg, err := config.Load(config.Options{
		File:      opts.ConfigPath,
		Overrides: opts.Overrides,
	})
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	logger := logging.New(logging.Options{
		Verbose: cfg.Log.Verbose,
		Writer:  stderr,
	})

	container, err := di.NewContainer(cfg, di.WithLogger(logger))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("close database", logging.ErrorAttrs(err)...)
		}
	}()

	env := &environment{
		container: container,
		stdout:    stdout,
		stderr:    stderr,
	}
	if err := cmd.run(ctx, env, opts.Args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", cmd.name, err)
		return 1
	}
	return 0
}
