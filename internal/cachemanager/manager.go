package cachemanager

import (
	"context"
	"time"
)

// NoExpiration keeps an entry until the cache is flushed.
const NoExpiration time.Duration = -1

type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Flush(ctx context.Context) error
	Len() int
}
