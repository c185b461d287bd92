// Package cache provides the types.Cache implementations: an in-process
// TTL map for single-node deployments and a redis-backed cache for
// clustered ones.
package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value     string
	expiresAt time.Time
}

type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
	}
}

// Get returns the cached value, or empty with no error on a miss. Expired
// entries are dropped lazily.
func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return "", nil
	}
	return item.value, nil
}

func (c *MemoryCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryItem{
		value:     value,
		expiresAt: time.Now().Add(expiresAt),
	}
	return nil
}

func (c *MemoryCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[key]; ok {
		item.expiresAt = time.Now().Add(expiration)
		c.items[key] = item
	}
	return nil
}
