package di

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-query-decorators/cache"
	"github.com/goliatone/go-query-decorators/internal/config"
	"github.com/goliatone/go-query-decorators/internal/logging"
	"github.com/goliatone/go-query-decorators/pkg/testsupport"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.DSN = testsupport.SQLiteDSN(t)
	cfg.Retry.Delay = 0
	return cfg
}

func newTestContainer(t *testing.T, cfg config.Config) *Container {
	t.Helper()
	container, err := NewContainer(cfg, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = cache.BackendSturdyc
	cfg.Cache.Capacity = 1000
	cfg.Cache.TTL = 5 * time.Minute
	cfg.Retry.Attempts = 5

	container := newTestContainer(t, cfg)

	// Verify that dependencies are properly initialized
	if container.CacheService() == nil {
		t.Error("Container should have a non-nil cache service")
	}

	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}

	if container.Opener() == nil || container.Scope() == nil {
		t.Fatal("Container should have an opener and a scope")
	}

	if container.Logger() == nil {
		t.Error("Container should have a logger")
	}

	storedConfig := container.Config()
	if storedConfig.Cache.Capacity != cfg.Cache.Capacity {
		t.Errorf("Expected capacity %d, got %d", cfg.Cache.Capacity, storedConfig.Cache.Capacity)
	}

	if policy := container.RetryPolicy(); policy.Attempts != 5 || policy.Delay != 0 {
		t.Errorf("Expected retry policy {5 0s}, got %+v", policy)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	got := container.Config()
	want := config.Defaults()

	if got.Database.DSN != want.Database.DSN {
		t.Errorf("Expected default DSN %q, got %q", want.Database.DSN, got.Database.DSN)
	}

	if got.Cache.Backend != cache.BackendMemory {
		t.Errorf("Expected default backend %q, got %q", cache.BackendMemory, got.Cache.Backend)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "zero attempts", mutate: func(c *config.Config) { c.Retry.Attempts = 0 }},
		{name: "empty dsn", mutate: func(c *config.Config) { c.Database.DSN = "" }},
		{name: "unknown backend", mutate: func(c *config.Config) { c.Cache.Backend = "redis" }},
		{name: "zero capacity", mutate: func(c *config.Config) { c.Cache.Capacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)

			if _, err := NewContainer(cfg); err == nil {
				t.Error("NewContainer() should fail with invalid config")
			}
		})
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container := newTestContainer(t, testConfig(t))

	// Call getters multiple times to ensure they return the same instances
	if container.CacheService() != container.CacheService() {
		t.Error("CacheService() should return the same instance (singleton behavior)")
	}

	if container.KeySerializer() != container.KeySerializer() {
		t.Error("KeySerializer() should return the same instance (singleton behavior)")
	}

	if container.Scope() != container.Scope() {
		t.Error("Scope() should return the same instance (singleton behavior)")
	}

	if container.Users() != container.Users() {
		t.Error("Users() should return the same instance (singleton behavior)")
	}
}

func TestKeySerializerIntegration(t *testing.T) {
	container := newTestContainer(t, testConfig(t))
	keySerializer := container.KeySerializer()

	testCases := []struct {
		name     string
		method   string
		args     []any
		expected string
	}{
		{
			name:     "no args",
			method:   "Org",
			args:     []any{},
			expected: "Org",
		},
		{
			name:     "single string arg",
			method:   "Org",
			args:     []any{"google"},
			expected: "Org::google",
		},
		{
			name:     "multiple args",
			method:   "Repos",
			args:     []any{"google", 10, true},
			expected: "Repos::google::10::true",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := keySerializer.SerializeKey(tc.method, tc.args...)
			if result != tc.expected {
				t.Errorf("Expected key %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestCacheServiceIntegration(t *testing.T) {
	container := newTestContainer(t, testConfig(t))
	cacheService := container.CacheService()
	ctx := context.Background()

	key := "SELECT 1"
	calls := 0
	fetchFn := func(ctx context.Context) (any, error) {
		calls++
		return "test-value", nil
	}

	for range 2 {
		result, err := cacheService.GetOrFetch(ctx, key, fetchFn)
		if err != nil {
			t.Fatalf("GetOrFetch() failed: %v", err)
		}
		if result != "test-value" {
			t.Errorf("Expected value %q, got %q", "test-value", result)
		}
	}

	if calls != 1 {
		t.Errorf("Expected fetch to run once, ran %d times", calls)
	}

	if err := cacheService.Delete(ctx, key); err != nil {
		t.Errorf("Delete() failed: %v", err)
	}
}
