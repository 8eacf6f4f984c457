// Package cache provides the key-value cache store, the per-entity key
// scheme and the invalidation logic that keeps cached catalog views
// consistent with the database.
package cache

import (
	"context"
)

// Store abstracts the caching backend. Values are opaque strings; the cache
// is always a derived copy of the database and never authoritative.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}
