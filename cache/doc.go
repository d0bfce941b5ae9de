// Package cache provides the query result cache used by the decorator stages.
//
// # Overview
//
// The package exports two interfaces and their default implementations:
//
//   - CacheService: a read-through cache keyed by string
//   - KeySerializer: builds stable keys from a method name and its arguments
//
// A CacheService is constructed once with NewCacheService and passed to the
// code that needs it. There is no package level instance.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	rows, err := cache.GetOrFetch(ctx, svc, "SELECT * FROM users", func(ctx context.Context) (store.ResultSet, error) {
//		return store.FetchAll(ctx, handle, "SELECT * FROM users")
//	})
//
// The first call for a key runs the fetch function and stores the value. Later
// calls return the stored value without running it. A failed fetch stores
// nothing.
//
// # Backends
//
// BackendMemory keeps every entry until the service is dropped: no capacity
// bound, no TTL. BackendSturdyc bounds the entry count and optionally applies a
// TTL. Both run the fetch function at most once per key, including when several
// goroutines miss the same key at the same time.
//
// # Query Keys
//
// QueryKey derives a key from call arguments. An explicit named "query"
// argument of any non-nil value wins, rendered with fmt.Sprint when it is not
// a string; otherwise the first positional string that starts with one of
// QueryVerbs is used. When no key can be derived the caller should skip the
// cache entirely.
//
// Keys are the literal query text. The same text issued against two different
// databases shares one entry, and writes never invalidate reads. Use Delete or
// a fresh service when that matters.
//
// # Key Serialization
//
// The default key serializer uses reflection to handle various Go types:
//
//   - Function pointers: %p formatting, stable within a process only
//   - Basic types: direct string representation
//   - Slices/arrays: recursive serialization of elements
//   - Maps: sorted key-value pairs for deterministic output
//   - Structs: exported fields with name:value pairs
//   - Anything else: JSON fallback
package cache
