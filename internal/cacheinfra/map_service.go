package cacheinfra

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"
)

// mapService is the unbounded backend: entries are never evicted and never
// expire. Misses on the same key are collapsed into one fetch through a
// singleflight group; the fetch runs outside any map lock, so a fetch may
// itself look up other keys.
type mapService struct {
	entries  *xsync.MapOf[string, any]
	inflight singleflight.Group
}

// NewMapService returns an empty unbounded cache.
func NewMapService() *mapService {
	return &mapService{entries: xsync.NewMapOf[string, any]()}
}

// GetOrFetch returns the stored value for key, computing it on first use.
// A failed computation leaves no entry behind, so the next call retries it.
func (s *mapService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	if value, ok := s.entries.Load(key); ok {
		return value, nil
	}

	value, err, _ := s.inflight.Do(key, func() (any, error) {
		// a caller that missed just before the previous flight stored its
		// value lands here after it finished
		if value, ok := s.entries.Load(key); ok {
			return value, nil
		}
		computed, err := callFetch(ctx, fetchFn)
		if err != nil {
			return nil, err
		}
		s.entries.Store(key, computed)
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes a single entry.
func (s *mapService) Delete(ctx context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len reports the number of stored entries.
func (s *mapService) Len() int {
	return s.entries.Size()
}
