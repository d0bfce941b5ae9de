// Package config loads the settings of the querydemo command.
//
// Values are layered, later sources winning: built-in defaults, an optional
// YAML file, QUERYDEMO_ environment variables, then explicit overrides (the
// command line flags that were set). Nested keys in the environment use a
// double underscore: QUERYDEMO_CACHE__EVICTION_PERCENTAGE=20.
package config

import (
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/goliatone/go-query-decorators/cache"
	"github.com/goliatone/go-query-decorators/retry"
	"github.com/goliatone/go-query-decorators/store"
)

// EnvPrefix is the default environment variable prefix.
const EnvPrefix = "QUERYDEMO_"

// Config is the full command configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database" json:"database"`
	Retry    RetryConfig    `koanf:"retry" json:"retry"`
	Cache    CacheConfig    `koanf:"cache" json:"cache"`
	Log      LogConfig      `koanf:"log" json:"log"`
	GitHub   GitHubConfig   `koanf:"github" json:"github"`
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn" json:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns" json:"max_open_conns"`
}

type RetryConfig struct {
	Attempts int           `koanf:"attempts" json:"attempts"`
	Delay    time.Duration `koanf:"delay" json:"delay"`
}

type CacheConfig struct {
	Backend            string        `koanf:"backend" json:"backend"`
	Capacity           int           `koanf:"capacity" json:"capacity"`
	NumShards          int           `koanf:"num_shards" json:"num_shards"`
	TTL                time.Duration `koanf:"ttl" json:"ttl"`
	EvictionPercentage int           `koanf:"eviction_percentage" json:"eviction_percentage"`
}

type LogConfig struct {
	Verbose bool `koanf:"verbose" json:"verbose"`
}

type GitHubConfig struct {
	BaseURL string        `koanf:"base_url" json:"base_url"`
	Timeout time.Duration `koanf:"timeout" json:"timeout"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	c := cache.DefaultConfig()
	return Config{
		Database: DatabaseConfig{DSN: store.DefaultDSN},
		Retry:    RetryConfig{Attempts: 3, Delay: 2 * time.Second},
		Cache: CacheConfig{
			Backend:            c.Backend,
			Capacity:           c.Capacity,
			NumShards:          c.NumShards,
			TTL:                c.TTL,
			EvictionPercentage: c.EvictionPercentage,
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
			Timeout: 10 * time.Second,
		},
	}
}

func (d Config) flatten() map[string]any {
	return map[string]any{
		"database.dsn":              d.Database.DSN,
		"database.max_open_conns":   d.Database.MaxOpenConns,
		"retry.attempts":            d.Retry.Attempts,
		"retry.delay":               d.Retry.Delay,
		"cache.backend":             d.Cache.Backend,
		"cache.capacity":            d.Cache.Capacity,
		"cache.num_shards":          d.Cache.NumShards,
		"cache.ttl":                 d.Cache.TTL,
		"cache.eviction_percentage": d.Cache.EvictionPercentage,
		"log.verbose":               d.Log.Verbose,
		"github.base_url":           d.GitHub.BaseURL,
		"github.timeout":            d.GitHub.Timeout,
	}
}

// Options controls Load.
type Options struct {
	// File is an optional YAML file. A missing file is an error only when
	// the path was given explicitly.
	File string
	// EnvPrefix defaults to EnvPrefix. Set to "-" to skip the environment.
	EnvPrefix string
	// Overrides are dotted keys applied last, e.g. {"retry.attempts": 5}.
	Overrides map[string]any
}

// Load builds and validates a Config.
func Load(opts Options) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults().flatten(), "."), nil); err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryInternal, "load defaults")
	}

	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "config file "+opts.File)
		}
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "parse config file "+opts.File)
		}
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = EnvPrefix
	}
	if prefix != "-" {
		envProvider := env.Provider(prefix, ".", func(s string) string {
			key := strings.ToLower(strings.TrimPrefix(s, prefix))
			return strings.ReplaceAll(key, "__", ".")
		})
		if err := k.Load(envProvider, nil); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryInternal, "load environment")
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryInternal, "apply overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Database),
		validation.Field(&c.Retry),
		validation.Field(&c.Cache),
		validation.Field(&c.GitHub),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid configuration")
	}
	return nil
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.DSN, validation.Required),
		validation.Field(&d.MaxOpenConns, validation.Min(0)),
	)
}

func (r RetryConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Attempts, validation.Required, validation.Min(1)),
		validation.Field(&r.Delay, validation.Min(time.Duration(0))),
	)
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.In(cache.BackendMemory, cache.BackendSturdyc)),
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

func (g GitHubConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.BaseURL, validation.Required, is.URL),
		validation.Field(&g.Timeout, validation.Min(time.Duration(0))),
	)
}

// RetryPolicy converts the retry section.
func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{Attempts: c.Retry.Attempts, Delay: c.Retry.Delay}
}

// CacheConfig converts the cache section.
func (c Config) CacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Backend = c.Cache.Backend
	cfg.Capacity = c.Cache.Capacity
	cfg.NumShards = c.Cache.NumShards
	cfg.TTL = c.Cache.TTL
	cfg.EvictionPercentage = c.Cache.EvictionPercentage
	return cfg
}
