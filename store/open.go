package store

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-query-decorators/scope"
)

// Driver names registered by the imported database/sql drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultDSN is the sqlite file the demo command works against.
const DefaultDSN = "users.db"

// Option configures Connect and NewOpener.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	logQuery bool
	maxConns int
}

// WithLogger installs a query hook that logs every statement at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
		o.logQuery = logger != nil
	}
}

// WithMaxOpenConns caps the pool size. Zero leaves the driver default.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxConns = n
	}
}

// DriverFor picks the driver and dialect for dsn. postgres:// and
// postgresql:// URLs go to pgx, anything else is treated as a sqlite path.
func DriverFor(dsn string) (string, schema.Dialect) {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres, pgdialect.New()
	}
	return DriverSQLite, sqlitedialect.New()
}

// Connect opens a bun.DB for dsn. No connection is made until first use.
func Connect(dsn string, opts ...Option) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, goerrors.New("dsn cannot be empty", goerrors.CategoryValidation)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	driver, dialect := DriverFor(dsn)
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "open "+driver+" database")
	}
	if o.maxConns > 0 {
		sqldb.SetMaxOpenConns(o.maxConns)
	}

	db := bun.NewDB(sqldb, dialect)
	if o.logQuery {
		db.AddQueryHook(NewQueryLogger(o.logger))
	}
	return db, nil
}

// Opener hands out one pooled connection per Open call. It satisfies
// scope.Opener; closing the returned handle returns the connection to the pool.
type Opener struct {
	db *bun.DB
}

var _ scope.Opener = (*Opener)(nil)

// NewOpener connects to dsn and wraps the pool in an Opener.
func NewOpener(dsn string, opts ...Option) (*Opener, error) {
	db, err := Connect(dsn, opts...)
	if err != nil {
		return nil, err
	}
	return &Opener{db: db}, nil
}

// Open reserves a dedicated connection from the pool.
func (o *Opener) Open(ctx context.Context) (scope.Handle, error) {
	conn, err := o.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DB exposes the underlying pool, for schema setup and seeding.
func (o *Opener) DB() *bun.DB {
	return o.db
}

// Close closes the pool.
func (o *Opener) Close() error {
	return o.db.Close()
}
