package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer.
// Values are JSON encoded so any implementation (Redis, in-memory) can back it.
type Cache interface {
	// Get loads key into dest.
	// found = false means a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with a TTL (0 = no expiry)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (SCAN based)
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error

	// Counters, used by login throttling
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
