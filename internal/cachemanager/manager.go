// Package cachemanager provides a typed cache facade over go-cache plus a
// read-through helper that fills it on miss.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache with per-entry TTLs.
type CacheManager[K comparable, V any] interface {
	// Get reports a miss for absent and expired keys alike.
	Get(ctx context.Context, key K) (V, bool)
	// Set stores value for ttl; a zero ttl means the cache default.
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
