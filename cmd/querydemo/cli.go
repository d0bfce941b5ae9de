package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// flagKeys maps global flags to configuration keys.
var flagKeys = map[string]string{
	"dsn":           "database.dsn",
	"verbose":       "log.verbose",
	"retries":       "retry.attempts",
	"delay":         "retry.delay",
	"cache-backend": "cache.backend",
	"github-url":    "github.base_url",
}

// options holds the parsed global flags and the selected command.
type options struct {
	ConfigPath string
	// Overrides holds only the flags that were set on the command line.
	Overrides map[string]any
	Command   string
	Args      []string
}

func parse(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("querydemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs) }

	var opts options
	fs.StringVar(&opts.ConfigPath, "config", "", "path to a YAML configuration file")
	fs.String("dsn", "", "database DSN (sqlite path or postgres:// URL)")
	fs.Bool("verbose", false, "enable debug logging")
	fs.Int("retries", 0, "total attempts for retried calls")
	fs.Duration("delay", 0, "wait between retried attempts")
	fs.String("cache-backend", "", "query cache backend: memory or sturdyc")
	fs.String("github-url", "", "GitHub API base URL")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.Overrides = make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if getter, ok := f.Value.(flag.Getter); ok {
			opts.Overrides[key] = getter.Get()
		}
	})

	rest := fs.Args()
	if len(rest) == 0 {
		usage(fs)
		return options{}, fmt.Errorf("missing command")
	}
	opts.Command = rest[0]
	opts.Args = rest[1:]
	return opts, nil
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	_, _ = fmt.Fprintln(w, "usage: querydemo [flags] <command> [args]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "commands:")
	for _, cmd := range commands {
		_, _ = fmt.Fprintf(w, "  %-12s %s\n", cmd.name, cmd.summary)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "flags:")
	fs.PrintDefaults()
}

// subcommand builds the flag set of one command.
func subcommand(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("querydemo "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// queryArg joins args into one statement, or returns fallback when none is given.
func queryArg(args []string, fallback string) string {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fallback
	}
	return strings.Join(args, " ")
}
