// Package cache provides the TTL cache behind the dashboard read path. The
// cache is strictly a performance layer: every value it holds can be
// recomputed from the database, so implementations may drop entries at any
// time without affecting correctness.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented TTL cache. Callers serialize their own values;
// the dashboard layer stores JSON.
type Cache interface {
	// Get returns the value for key and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the given keys, ignoring ones that are absent.
	Delete(ctx context.Context, keys ...string) error
	// Close releases any resources held by the implementation.
	Close() error
}
