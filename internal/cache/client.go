package cache

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Client wraps a Store with best-effort semantics: cache failures are logged
// and swallowed so they can never fail the database operation they shadow.
type Client struct {
	store Store
	log   *slog.Logger
}

// NewClient creates a new cache client.
func NewClient(store Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default().With("component", "cache")
	}
	return &Client{store: store, log: logger}
}

// GetRaw returns the raw string value for a key, or false on miss or error.
// An error falls through as a miss so the caller reloads from the store.
func (c *Client) GetRaw(ctx context.Context, key string) (string, bool) {
	value, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache read failed", "key", key, "err", err)
		return "", false
	}
	return value, ok
}

// SetRaw writes a raw string value for a key, ignoring failures.
func (c *Client) SetRaw(ctx context.Context, key, value string) {
	if err := c.store.Set(ctx, key, value); err != nil {
		c.log.Warn("cache write failed", "key", key, "err", err)
	}
}

// Delete removes the given keys, ignoring failures.
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.Warn("cache delete failed", "keys", keys, "err", err)
	}
}

// Get deserializes the cached JSON value for a key into T. A malformed entry
// is treated as a miss and evicted.
func Get[T any](ctx context.Context, c *Client, key string) (*T, bool) {
	raw, ok := c.GetRaw(ctx, key)
	if !ok {
		return nil, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		c.log.Warn("cache entry is malformed, evicting", "key", key, "err", err)
		c.Delete(ctx, key)
		return nil, false
	}

	return &value, true
}

// Set serializes a value as JSON and writes it under the given key.
func Set(ctx context.Context, c *Client, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache value is not serializable", "key", key, "err", err)
		return
	}
	c.SetRaw(ctx, key, string(data))
}
