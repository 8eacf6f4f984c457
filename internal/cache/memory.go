package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory implements Store using in-process LRU eviction. Entries have no
// TTL; staleness is handled by explicit invalidation.
type Memory struct {
	entries *lru.Cache[string, string]
}

// NewMemory creates a new LRU-backed store holding at most size entries.
func NewMemory(size int) (*Memory, error) {
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}

	return &Memory{entries: entries}, nil
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := m.entries.Get(key)
	return value, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.entries.Add(key, value)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.entries.Remove(key)
	}
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	return m.entries.Len()
}
