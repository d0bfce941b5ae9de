package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// neverExpires stands in for "no TTL"; sturdyc requires a positive TTL.
const neverExpires = 100 * 365 * 24 * time.Hour

// Config holds the configuration for the sturdyc cache adapter.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the time-to-live for cached query results. Zero keeps entries
	// until they are evicted for capacity.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// MissingRecordStorage lets sturdyc remember keys whose fetch returned
	// sturdyc.ErrNotFound. Off by default: a query returning no rows is an
	// empty result set, not a missing record.
	MissingRecordStorage bool

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config suitable for caching query results.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                0,
		EvictionPercentage: 10,
	}
}

// EffectiveTTL returns the TTL handed to sturdyc.
func (c Config) EffectiveTTL() time.Duration {
	if c.TTL == 0 {
		return neverExpires
	}
	return c.TTL
}

// ToSturdycOptions converts the optional settings to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
// Early refreshes are never enabled: a background refresh would re-run the
// query and break the compute-once guarantee.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL < 0 {
		return &ConfigError{Field: "TTL", Message: "must be non-negative"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// sturdycService wraps a sturdyc client. Concurrent misses on the same key
// are deduplicated by sturdyc, so the fetch function runs once per key.
type sturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService validates cfg and builds a sturdyc backed service.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.EffectiveTTL(),
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycService{client: client}, nil
}

// GetOrFetch returns the entry for key or runs fetchFn and stores its result.
// Failed fetches are not stored.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return callFetch(ctx, fetchFn)
	})
}

// Delete removes a single entry.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Len reports the number of live entries.
func (s *sturdycService) Len() int {
	return len(s.client.ScanKeys())
}
