// Package cache provides the result cache tiers used by the differential service: an
// in-process expirable LRU and an optional Redis tier guarded by a circuit breaker.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMaxItems = 1000
	defaultTTL      = 15 * time.Minute
)

// MemoryCache is an in-process LRU with per-entry expiry.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache creates a new MemoryCache. Non-positive arguments use defaults.
func NewMemoryCache(maxItems int, ttl time.Duration) *MemoryCache {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](maxItems, nil, ttl)}
}

// Get returns a cached value.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	return m.lru.Get(key)
}

// Set stores a value.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

// Len returns the number of live entries.
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}

// Purge drops every entry.
func (m *MemoryCache) Purge() {
	m.lru.Purge()
}
