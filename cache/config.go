package cache

import (
	"time"

	"github.com/goliatone/go-query-decorators/internal/cacheinfra"
)

// Supported cache backends.
const (
	// BackendMemory keeps every entry for the life of the service: no
	// capacity bound, no TTL, no eviction.
	BackendMemory = "memory"
	// BackendSturdyc uses sturdyc with a capacity bound; entries past
	// Capacity are evicted and TTL applies when set.
	BackendSturdyc = "sturdyc"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend              string
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// DefaultConfig returns the unbounded in-memory configuration. The sturdyc
// fields carry usable defaults so switching Backend is enough.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.Backend = BackendMemory
	return cfg
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendMemory:
		return nil
	case BackendSturdyc:
		return c.toInternal().Validate()
	default:
		return &cacheinfra.ConfigError{Field: "Backend", Message: "must be one of memory, sturdyc"}
	}
}

// NewCacheService constructs the cache service selected by cfg.Backend.
func NewCacheService(cfg Config) (CacheService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == BackendSturdyc {
		svc, err := cacheinfra.NewSturdycService(cfg.toInternal())
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	return cacheinfra.NewMapService(), nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
