package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-query-decorators/pkg/di"
	qd "github.com/goliatone/go-query-decorators/querydecorator"
	"github.com/goliatone/go-query-decorators/scope"
	"github.com/goliatone/go-query-decorators/store"
)

const (
	selectUsers      = "SELECT * FROM users"
	selectUserByID   = "SELECT * FROM users WHERE id = ?"
	selectOlderUsers = "SELECT * FROM users WHERE age > ?"
)

type environment struct {
	container *di.Container
	stdout    io.Writer
	stderr    io.Writer
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

var commands = []command{
	{name: "seed", summary: "create the users table and fill it with fake users", run: runSeed},
	{name: "log-queries", summary: "run a query with the query logger", run: runLogQueries},
	{name: "get-user", summary: "fetch one user by id on a scoped connection", run: runGetUser},
	{name: "find-user", summary: "look a user up by id or email through the cached repository", run: runFindUser},
	{name: "retry", summary: "fetch users, retrying failed attempts", run: runRetry},
	{name: "cache", summary: "run the same query twice through the query cache", run: runCache},
	{name: "context", summary: "run a query inside a connection scope", run: runContext},
	{name: "execute", summary: "run a parameterised query and print the rows", run: runExecute},
	{name: "concurrent", summary: "run two queries concurrently", run: runConcurrent},
	{name: "org", summary: "list the public repositories of a GitHub organisation", run: runOrg},
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func runSeed(ctx context.Context, env *environment, args []string) error {
	fs := subcommand("seed", env.stderr)
	n := fs.Int("n", 20, "number of users")
	seed := fs.Int64("seed", 1, "random seed, 0 picks one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 1 {
		return goerrors.New("-n must be at least 1", goerrors.CategoryBadInput)
	}

	users, err := env.container.Seed(ctx, *seed, *n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.stdout, "seeded %d users\n", len(users))
	return err
}

func runLogQueries(ctx context.Context, env *environment, args []string) error {
	fetch := qd.LogQueries(env.container.Logger(),
		qd.WithConnection[store.ResultSet](env.container.Scope(), qd.FetchAll))

	rows, err := fetch(ctx, qd.NamedQuery(queryArg(args, selectUsers)))
	if err != nil {
		return err
	}
	return printRows(env.stdout, rows)
}

func runGetUser(ctx context.Context, env *environment, args []string) error {
	id := int64(1)
	if len(args) > 0 {
		parsed, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryBadInput, "user id must be an integer")
		}
		id = parsed
	}

	get := qd.WithConnection[store.Row](env.container.Scope(), qd.FetchOne)
	row, err := get(ctx, qd.Args(selectUserByID, id))
	if err != nil {
		return err
	}
	return printRows(env.stdout, store.ResultSet{row})
}

func runFindUser(ctx context.Context, env *environment, args []string) error {
	fs := subcommand("find-user", env.stderr)
	byEmail := fs.Bool("email", false, "treat the argument as an email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return goerrors.New("usage: querydemo find-user [-email] <id|email>", goerrors.CategoryBadInput)
	}

	users := env.container.Users()
	arg := fs.Arg(0)

	var (
		user *store.User
		err  error
	)
	if *byEmail {
		user, err = users.GetByIdentifier(ctx, arg)
	} else {
		if _, perr := strconv.ParseInt(arg, 10, 64); perr != nil {
			return goerrors.Wrap(perr, goerrors.CategoryBadInput, "user id must be an integer")
		}
		user, err = users.GetByID(ctx, arg)
	}
	if err != nil {
		return err
	}
	return printRows(env.stdout, store.ResultSet{user.Row()})
}

func runRetry(ctx context.Context, env *environment, args []string) error {
	fs := subcommand("retry", env.stderr)
	fail := fs.Int("fail", 0, "make the first n attempts fail")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var attempts atomic.Int64
	op := func(ctx context.Context, h scope.Handle, call qd.Call) (store.ResultSet, error) {
		n := attempts.Add(1)
		if n <= int64(*fail) {
			return nil, goerrors.New(fmt.Sprintf("simulated failure on attempt %d", n), goerrors.CategoryOperation)
		}
		return qd.FetchAll(ctx, h, call)
	}

	policy := env.container.RetryPolicy()
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		env.container.Logger().WarnContext(ctx, "attempt failed, retrying",
			"attempt", attempt, "wait", wait, "error", err.Error())
	}

	fetch := qd.Compose[store.ResultSet](env.container.Scope(), op,
		qd.WithRetry(policy),
		qd.ReuseConnection(),
	)
	rows, err := fetch(ctx, qd.Args(selectUsers))
	if err != nil {
		return err
	}
	if err := printRows(env.stdout, rows); err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.stdout, "attempts: %d\n", attempts.Load())
	return err
}

func runCache(ctx context.Context, env *environment, args []string) error {
	var executed atomic.Int64
	op := func(ctx context.Context, h scope.Handle, call qd.Call) (store.ResultSet, error) {
		executed.Add(1)
		return qd.FetchAll(ctx, h, call)
	}

	fetch := di.NewQuery[store.ResultSet](env.container, op)
	call := qd.NamedQuery(queryArg(args, selectUsers))

	rows, err := fetch(ctx, call)
	if err != nil {
		return err
	}
	again, err := fetch(ctx, call)
	if err != nil {
		return err
	}

	if err := printRows(env.stdout, again); err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.stdout, "rows: %d, executed: %d, cached queries: %d\n",
		len(rows), executed.Load(), env.container.CacheService().Len())
	return err
}

func runContext(ctx context.Context, env *environment, args []string) error {
	query := queryArg(args, selectUsers)
	return env.container.Scope().Run(ctx, func(ctx context.Context, h scope.Handle) error {
		rows, err := store.FetchAll(ctx, h, query)
		if err != nil {
			return err
		}
		return printRows(env.stdout, rows)
	})
}

func runExecute(ctx context.Context, env *environment, args []string) error {
	fs := subcommand("execute", env.stderr)
	age := fs.Int("age", 25, "minimum age, exclusive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows, err := store.ExecuteQuery(ctx, env.container.Scope(), selectOlderUsers, *age)
	if err != nil {
		return err
	}
	return printRows(env.stdout, rows)
}

func runConcurrent(ctx context.Context, env *environment, args []string) error {
	fs := subcommand("concurrent", env.stderr)
	age := fs.Int("age", 40, "age threshold of the second query")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fetch := qd.WithConnection[store.ResultSet](env.container.Scope(), qd.FetchAll)
	results, err := qd.Gather(ctx,
		qd.Bind(fetch, qd.Args(selectUsers)),
		qd.Bind(fetch, qd.Args(selectOlderUsers, *age)),
	)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(env.stdout, "All users: %d\n", len(results[0])); err != nil {
		return err
	}
	if err := printRows(env.stdout, results[0]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(env.stdout, "Older than %d: %d\n", *age, len(results[1])); err != nil {
		return err
	}
	return printRows(env.stdout, results[1])
}

func runOrg(ctx context.Context, env *environment, args []string) error {
	fs := subcommand("org", env.stderr)
	license := fs.String("license", "", "only list repositories with this license key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return goerrors.New("usage: querydemo org [-license key] <organisation>", goerrors.CategoryBadInput)
	}

	client, err := env.container.GitHubClient(fs.Arg(0))
	if err != nil {
		return err
	}
	names, err := client.PublicRepos(ctx, *license)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(env.stdout, name); err != nil {
			return err
		}
	}
	return nil
}

// printRows writes one tab aligned line per row.
func printRows(w io.Writer, rows store.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
