package cachemanager

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/zjrosen/invsources/internal/log"
)

// ReadThroughCache fills a key from fn on a miss and serves the stored value
// afterwards. Concurrent misses on the same key share one call to fn, and fn
// re-checks the slot before running, so a key is filled at most once until
// Reset. Errors are returned to the waiting callers but never stored.
type ReadThroughCache[K ~string, V any] struct {
	cache CacheManager[K, V]
	fn    func(ctx context.Context) (V, error)
	group singleflight.Group
	loads atomic.Int64

	// mu is held for reading by every miss until its flight has returned
	// and for writing by Reset.
	mu sync.RWMutex
}

func NewReadThroughCache[K ~string, V any](
	cache CacheManager[K, V],
	fn func(ctx context.Context) (V, error),
) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{
		cache: cache,
		fn:    fn,
	}
}

func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res, err, _ := r.group.Do(string(key), func() (any, error) {
		if value, ok := r.cache.Get(ctx, key); ok {
			return value, nil
		}

		r.loads.Add(1)
		value, err := r.fn(ctx)
		if err != nil {
			return nil, err
		}

		r.cache.Set(ctx, key, value, NoExpiration)

		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return res.(V), nil
}

// Reset drops every stored value so the next Get calls fn again. It waits
// for misses already running, so no value loaded before Reset is stored
// after it returns.
func (r *ReadThroughCache[K, V]) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Debug(log.CatCache, "read-through cache reset", "entries", r.cache.Len())
	return r.cache.Flush(ctx)
}

// Loads reports how many times fn has been invoked.
func (r *ReadThroughCache[K, V]) Loads() int64 {
	return r.loads.Load()
}
