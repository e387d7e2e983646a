package cachemanager

import (
	"context"
	"sync/atomic"
	"time"
)

// Stats counts how a ReadThroughCache answered.
type Stats struct {
	Hits   int64
	Misses int64
	Errors int64
}

// ReadThroughCache fills a CacheManager on demand. A miss calls load with
// the caller's input; only successful results are stored.
type ReadThroughCache[K comparable, V any, I any] struct {
	store  CacheManager[K, V]
	load   func(ctx context.Context, input I) (V, error)
	bypass bool

	hits, misses, errs atomic.Int64
}

// NewReadThroughCache wraps store. With bypass set every Get calls load
// and store is never touched.
func NewReadThroughCache[K comparable, V any, I any](
	store CacheManager[K, V],
	load func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{store: store, load: load, bypass: bypass}
}

// Get returns the value for key, loading it from input on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if !r.bypass {
		if v, ok := r.store.Get(ctx, key); ok {
			r.hits.Add(1)
			return v, nil
		}
	}
	r.misses.Add(1)

	v, err := r.load(ctx, input)
	if err != nil {
		r.errs.Add(1)
		return v, err
	}
	if !r.bypass {
		r.store.Set(ctx, key, v, ttl)
	}
	return v, nil
}

// Invalidate drops keys so the next Get reloads them.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, keys ...K) error {
	if r.bypass {
		return nil
	}
	return r.store.Delete(ctx, keys...)
}

// Stats returns the counters accumulated so far.
func (r *ReadThroughCache[K, V, I]) Stats() Stats {
	return Stats{Hits: r.hits.Load(), Misses: r.misses.Load(), Errors: r.errs.Load()}
}
