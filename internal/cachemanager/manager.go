package cachemanager

import (
	"context"
)

// CacheManager is the storage contract for read-through caches. Entries
// carry no TTL: the board cache keeps every loaded document for the life
// of the process, and callers evict explicitly if they must.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Count(ctx context.Context) int
}
