// Package repositorycache caches the read side of a go-repository-bun
// repository in the same CacheService the query decorators use.
//
// # Overview
//
// CachedRepository wraps any value with the lookup methods of
// repository.Repository[T] and memoises the criteria free lookups:
//
//   - GetByID, GetByIdentifier
//   - Count
//   - List, paginated by limit and offset
//
// Keys are built by a KeySerializer from the method name and its arguments,
// so a namespaced serializer keeps repository entries apart from query text
// entries in a shared service.
//
// # Basic Usage
//
//	repo := store.NewUserRepository(db)
//	users := repositorycache.New(repo, svc, cache.NewNamespacedKeySerializer("users"))
//
//	u, err := users.GetByID(ctx, store.UserID(4))
//
// # Caching Behavior
//
// A successful lookup is stored for the life of the cache service. A failed
// lookup, including "record not found", is returned and not stored. Writes
// made through the base repository do not evict entries; call Forget with the
// same method and arguments to drop one.
package repositorycache
