// Package cache stores computed layouts so repeated layout requests on an
// unchanged graph skip the ordering search.
//
// Entries are opaque byte slices addressed by string keys built with [Key].
// [FileCache] persists entries on disk for the CLI, [MemoryCache] keeps them
// in process for the HTTP server, and [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with optional expiry.
type Cache interface {
	// Get returns the cached value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
