package github

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/sony/gobreaker/v2"

	"github.com/goliatone/go-query-decorators/cache"
	"github.com/goliatone/go-query-decorators/internal/logging"
	"github.com/goliatone/go-query-decorators/nested"
	"github.com/goliatone/go-query-decorators/retry"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// Payload is a decoded JSON object.
type Payload = map[string]any

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache memoises Org through svc, keyed by keys.
func WithCache(svc cache.CacheService, keys cache.KeySerializer) Option {
	return func(c *Client) {
		c.cache = svc
		c.keys = keys
	}
}

// WithRetry sets the policy applied to every request.
func WithRetry(policy retry.Policy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client reads an organisation and its public repositories.
type Client struct {
	org     string
	baseURL string
	http    *http.Client
	cache   cache.CacheService
	keys    cache.KeySerializer
	policy  retry.Policy
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewClient returns a client for org. Without WithCache the client memoises
// Org in a private in-memory cache.
func NewClient(org string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(org) == "" {
		return nil, goerrors.New("organisation name cannot be empty", goerrors.CategoryValidation)
	}

	c := &Client{
		org:     org,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		policy:  retry.Policy{Attempts: 3, Delay: 500 * time.Millisecond},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger).With(slog.String("org", org))

	if c.cache == nil {
		svc, err := cache.NewCacheService(cache.DefaultConfig())
		if err != nil {
			return nil, err
		}
		c.cache = svc
	}
	if c.keys == nil {
		c.keys = cache.NewNamespacedKeySerializer("github")
	}
	if err := c.policy.Validate(); err != nil {
		return nil, err
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    c.baseURL,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return !statusErr.IsRetryable()
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return c, nil
}

// Name returns the organisation name.
func (c *Client) Name() string {
	return c.org
}

// OrgURL returns the API URL of the organisation.
func (c *Client) OrgURL() string {
	return c.baseURL + "/orgs/" + url.PathEscape(c.org)
}

// Org fetches the organisation payload. The first successful answer is kept
// and returned by later calls.
func (c *Client) Org(ctx context.Context) (Payload, error) {
	key := c.keys.SerializeKey("Org", c.baseURL, c.org)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (Payload, error) {
		var payload Payload
		if err := c.getJSON(ctx, c.OrgURL(), &payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
}

// PublicReposURL returns the repos_url field of the organisation payload.
func (c *Client) PublicReposURL(ctx context.Context) (string, error) {
	org, err := c.Org(ctx)
	if err != nil {
		return "", err
	}
	return nested.Get[string](org, "repos_url")
}

// Repos fetches the raw repository payloads.
func (c *Client) Repos(ctx context.Context) ([]Payload, error) {
	reposURL, err := c.PublicReposURL(ctx)
	if err != nil {
		return nil, err
	}
	var repos []Payload
	if err := c.getJSON(ctx, reposURL, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// PublicRepos lists repository names in API order. A non-empty license keeps
// only repositories whose license key matches.
func (c *Client) PublicRepos(ctx context.Context, license string) ([]string, error) {
	repos, err := c.Repos(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		if license != "" && !HasLicense(repo, license) {
			continue
		}
		name, _ := repo["name"].(string)
		names = append(names, name)
	}
	return names, nil
}

// HasLicense reports whether repo.license.key equals key.
func HasLicense(repo Payload, key string) bool {
	v, err := nested.Access(repo, "license", "key")
	if err != nil {
		return false
	}
	got, ok := v.(string)
	return ok && got == key
}

func (c *Client) getJSON(ctx context.Context, target string, dest any) error {
	policy := c.policy
	policy.Retryable = func(err error) bool {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return false
		}
		return retry.DefaultRetryable(err)
	}
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "request failed, retrying",
			append([]any{slog.String("url", target), slog.Int("attempt", attempt), slog.Duration("wait", wait)},
				logging.ErrorAttrs(err)...)...)
	}

	body, err := retry.Do(ctx, policy, func(ctx context.Context) ([]byte, error) {
		return c.breaker.Execute(func() ([]byte, error) {
			return fetch(ctx, c.http, target)
		})
	})
	if err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "request succeeded", slog.String("url", target))
	if err := json.Unmarshal(body, dest); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "decode response from "+target)
	}
	return nil
}
