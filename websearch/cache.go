// CLAUDE:SUMMARY TTL plus capacity bounded cache with oldest-insertion eviction, injected into each search client.
package websearch

import (
	"sync"
	"time"
)

// Cache is a time- and size-bounded map from a query fingerprint to a
// cached value. Reads expire on TTL; inserts evict the oldest entry once
// over capacity. Owned explicitly by a client, lifetime tied to the
// server process.
type Cache[V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value      V
	insertedAt time.Time
}

// NewCache creates a cache holding at most capacity entries for at most
// ttl each.
func NewCache[V any](ttl time.Duration, capacity int) *Cache[V] {
	return &Cache[V]{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]cacheEntry[V]),
	}
}

// Get returns the cached value when present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if time.Since(e.insertedAt) > c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Put stores a value, evicting the oldest-inserted entry when the cache
// is over capacity.
func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry[V]{value: v, insertedAt: time.Now()}

	for len(c.entries) > c.capacity {
		oldestKey := ""
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertedAt.Before(oldest) {
				oldestKey = k
				oldest = e.insertedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of cached entries, expired included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
