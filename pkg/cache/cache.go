// Package cache provides byte-level storage for registry responses.
//
// Registry clients in [github.com/matzehuels/depaudit/pkg/integrations]
// store raw JSON payloads here so repeated runs do not hit PyPI, npm, Maven
// Central or NuGet again for the same package. Three backends exist:
//
//   - [FileCache]: JSON entry files under a directory (the CLI default)
//   - [RedisCache]: a shared redis instance for teams running many audits
//   - [NullCache]: discards everything (--no-cache, tests)
//
// Entries carry an optional TTL. An expired entry is reported as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface used by registry clients.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A missing or expired
	// entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache discards writes and misses on every read.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
