package cachemanager

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/gantry/internal/log"
)

// NewInMemoryCacheManager initializes the in-memory cache. Entries never
// expire and no cleanup janitor runs.
func NewInMemoryCacheManager[K ~string, V any](useCase string) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

// InMemoryCacheManager is the concrete implementation of the CacheManager interface
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

// Get retrieves an item from the cache by its key
func (c *InMemoryCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}

	// Type assertion check to ensure the type is correct
	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)

		return zeroValue, false
	}

	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)

	return v, true
}

// Set stores a value under key until the process exits or the key is
// deleted.
func (c *InMemoryCacheManager[K, V]) Set(ctx context.Context, key K, value V) {
	c.cache.Set(string(key), value, gocache.NoExpiration)
}

// Delete removes values from the cache by their keys
func (c *InMemoryCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}

	return nil
}

// Flush removes every entry from the cache
func (c *InMemoryCacheManager[K, V]) Flush(ctx context.Context) error {
	c.cache.Flush()

	return nil
}

// Count reports the number of entries held
func (c *InMemoryCacheManager[K, V]) Count(ctx context.Context) int {
	return c.cache.ItemCount()
}
