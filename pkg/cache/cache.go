// Package cache stores serialized analysis results between runs.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: stores nothing, for --no-cache runs and tests
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis server, for the HTTP server
//
// Keys come from a [Keyer] so that the same input file and options always
// map to the same entry, whatever the backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLReport = 7 * 24 * time.Hour
	TTLHops   = 24 * time.Hour
)
