package cachemanager

import (
	"context"
)

// ReadThroughCache pairs a CacheManager with a loader. A miss runs the
// loader and stores the result, so every later lookup of the same key
// returns the identical instance. Nothing is stored when the loader
// fails.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	load            func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	load func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		load:            load,
		shouldSkipCache: shouldSkipCache,
	}
}

// GetOrLoad returns the cached value for key, or runs the loader with
// input and caches the result on success.
func (r *ReadThroughCache[K, V, I]) GetOrLoad(ctx context.Context, key K, input I) (V, error) {
	if r.shouldSkipCache {
		return r.load(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.load(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value)

	return value, nil
}
