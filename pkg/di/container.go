package di

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-query-decorators/cache"
	"github.com/goliatone/go-query-decorators/github"
	"github.com/goliatone/go-query-decorators/internal/config"
	"github.com/goliatone/go-query-decorators/internal/logging"
	"github.com/goliatone/go-query-decorators/querydecorator"
	"github.com/goliatone/go-query-decorators/repositorycache"
	"github.com/goliatone/go-query-decorators/retry"
	"github.com/goliatone/go-query-decorators/scope"
	"github.com/goliatone/go-query-decorators/store"
)

// Container wires the shared components built from one Config: a logger, a
// single query cache, a key serializer, the database opener and its scope,
// and the cached users repository.
// Everything handed out by the container is a singleton for its lifetime.
type Container struct {
	config        config.Config
	logger        *slog.Logger
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	opener        *store.Opener
	scope         *scope.Scope
	users         *repositorycache.CachedRepository[*store.User]
}

// Option customizes NewContainer.
type Option func(*containerOptions)

type containerOptions struct {
	logger *slog.Logger
	opener *store.Opener
}

// WithLogger overrides the logger derived from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(o *containerOptions) {
		o.logger = logger
	}
}

// WithOpener uses an existing opener instead of connecting to the
// configured DSN. The container then owns and closes it.
func WithOpener(opener *store.Opener) Option {
	return func(o *containerOptions) {
		o.opener = opener
	}
}

// NewContainer validates cfg and builds the components it describes.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &containerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.New(logging.Options{Verbose: cfg.Log.Verbose})
	}

	cacheService, err := cache.NewCacheService(cfg.CacheConfig())
	if err != nil {
		return nil, err
	}

	opener := o.opener
	if opener == nil {
		opener, err = store.NewOpener(cfg.Database.DSN,
			store.WithLogger(logger),
			store.WithMaxOpenConns(cfg.Database.MaxOpenConns),
		)
		if err != nil {
			return nil, err
		}
	}

	users := repositorycache.New[*store.User](
		store.NewUserRepository(opener.DB()),
		cacheService,
		cache.NewNamespacedKeySerializer("users"),
	)

	return &Container{
		config:        cfg,
		logger:        logger,
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
		opener:        opener,
		scope:         scope.New(opener, scope.WithLogger(logger)),
		users:         users,
	}, nil
}

// NewContainerWithDefaults creates a container from config.Defaults().
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(config.Defaults())
}

// CacheService returns the query cache shared by every pipeline.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the serializer used for non-SQL memoisation.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

func (c *Container) Opener() *store.Opener {
	return c.opener
}

func (c *Container) Scope() *scope.Scope {
	return c.scope
}

// Users returns the users repository, reading through the shared cache
// under the "users" namespace.
func (c *Container) Users() *repositorycache.CachedRepository[*store.User] {
	return c.users
}

// RetryPolicy returns the configured policy.
func (c *Container) RetryPolicy() retry.Policy {
	return c.config.RetryPolicy()
}

// GitHubClient returns a client for org that memoises through the shared
// cache under the "github" namespace.
func (c *Container) GitHubClient(org string, opts ...github.Option) (*github.Client, error) {
	base := []github.Option{
		github.WithBaseURL(c.config.GitHub.BaseURL),
		github.WithHTTPClient(&http.Client{Timeout: c.config.GitHub.Timeout}),
		github.WithCache(c.cacheService, cache.NewNamespacedKeySerializer("github")),
		github.WithRetry(c.RetryPolicy()),
		github.WithLogger(c.logger),
	}
	return github.NewClient(org, append(base, opts...)...)
}

// Seed replaces the users table with n generated users.
func (c *Container) Seed(ctx context.Context, seed int64, n int) ([]store.User, error) {
	users := store.FakeUsers(seed, n)
	if err := store.Seed(ctx, c.opener.DB(), users); err != nil {
		return nil, err
	}
	return users, nil
}

// Close releases the database pool.
func (c *Container) Close() error {
	return c.opener.Close()
}

// NewQuery composes op with every stage enabled from the container: logging,
// the shared cache and the configured retry policy. Extra options are
// applied after the defaults.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewQuery(container, querydecorator.FetchAll)
func NewQuery[T any](c *Container, op querydecorator.ScopedFunc[T], opts ...querydecorator.Option) querydecorator.Func[T] {
	base := []querydecorator.Option{
		querydecorator.WithLogging(c.logger),
		querydecorator.WithCache(c.cacheService),
		querydecorator.WithRetry(c.RetryPolicy()),
	}
	return querydecorator.Compose(c.scope, op, append(base, opts...)...)
}
