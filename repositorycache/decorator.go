package repositorycache

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-query-decorators/cache"
)

// Reader is the part of repository.Repository[T] that CachedRepository reads
// through.
type Reader[T any] interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (T, error)
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
	Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error)
}

var _ Reader[any] = (repository.Repository[any])(nil)

// listResult keeps the tuple result of List in one cache entry.
type listResult[T any] struct {
	Records []T
	Total   int
}

// CachedRepository memoises the lookups of a base repository.
type CachedRepository[T any] struct {
	base          Reader[T]
	cache         cache.CacheService
	keySerializer cache.KeySerializer
}

// New wraps base. A nil keySerializer uses cache.NewDefaultKeySerializer.
func New[T any](base Reader[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) *CachedRepository[T] {
	if keySerializer == nil {
		keySerializer = cache.NewDefaultKeySerializer()
	}
	return &CachedRepository[T]{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
	}
}

// GetByID retrieves a record by id.
func (c *CachedRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	key := c.keySerializer.SerializeKey("GetByID", id)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (T, error) {
		return c.base.GetByID(ctx, id)
	})
}

// GetByIdentifier retrieves a record by its identifier column.
func (c *CachedRepository[T]) GetByIdentifier(ctx context.Context, identifier string) (T, error) {
	key := c.keySerializer.SerializeKey("GetByIdentifier", identifier)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (T, error) {
		return c.base.GetByIdentifier(ctx, identifier)
	})
}

// List returns one page of records and the total count.
func (c *CachedRepository[T]) List(ctx context.Context, limit, offset int) ([]T, int, error) {
	key := c.keySerializer.SerializeKey("List", limit, offset)
	res, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (listResult[T], error) {
		records, total, err := c.base.List(ctx, repository.SelectPaginate(limit, offset))
		return listResult[T]{Records: records, Total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return res.Records, res.Total, nil
}

// Count returns the number of records.
func (c *CachedRepository[T]) Count(ctx context.Context) (int, error) {
	key := c.keySerializer.SerializeKey("Count")
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (int, error) {
		return c.base.Count(ctx)
	})
}

// Forget drops the entry stored for method called with args.
func (c *CachedRepository[T]) Forget(ctx context.Context, method string, args ...any) error {
	return c.cache.Delete(ctx, c.keySerializer.SerializeKey(method, args...))
}
