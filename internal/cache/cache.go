// Package cache provides a bounded TTL cache for computed projections.
//
// The clock is injected so expiry is testable; there is no hidden module
// state, callers own the cache instance.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Clock returns the current time. Injected for deterministic tests.
type Clock func() time.Time

// ProjectionCache is an LRU cache with per-entry TTL, keyed by strings of the
// form "<dataset id>:<options hash>".
type ProjectionCache struct {
	capacity int
	ttl      time.Duration
	now      Clock
	mu       sync.Mutex
	entries  map[string]*list.Element
	lru      *list.List
}

type cacheEntry struct {
	key      string
	value    interface{}
	storedAt time.Time
}

// New creates a cache holding at most capacity entries, each valid for ttl.
// A nil clock uses time.Now.
func New(capacity int, ttl time.Duration, now Clock) *ProjectionCache {
	if now == nil {
		now = time.Now
	}
	return &ProjectionCache{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Key builds a cache key scoped to a dataset.
func Key(datasetID string, parts ...string) string {
	return datasetID + ":" + strings.Join(parts, ":")
}

// Get returns the cached value for key if present and not expired.
func (c *ProjectionCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.lru.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return entry.value, true
}

// Set stores value under key, evicting the oldest entry if at capacity.
func (c *ProjectionCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.storedAt = c.now()
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, value: value, storedAt: c.now()})
	c.entries[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// InvalidateDataset removes all entries belonging to the dataset.
func (c *ProjectionCache) InvalidateDataset(datasetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := datasetID + ":"
	for key, elem := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(elem)
			delete(c.entries, key)
		}
	}
}

// Len returns the number of entries, including any not yet expired-on-read.
func (c *ProjectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
