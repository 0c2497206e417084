// Package cache provides a small bounded TTL cache used to memoize
// beta and relative-strength computations across evaluations. It is owned by
// the orchestrator and injected, never reached through a global.
package cache

import (
	"sync"
	"time"
)

// Cache is the injection point consumed by the signal generator.
type Cache interface {
	Get(key string) (float64, bool)
	Put(key string, value float64)
}

type entry struct {
	value    float64
	expires  time.Time
	lastUsed time.Time
}

// TTLCache is a thread-safe cache with time-to-live expiry and a hard size
// bound. When full, the least recently used entry is evicted.
type TTLCache struct {
	mu      sync.Mutex
	items   map[string]*entry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewTTLCache creates a cache holding at most maxSize entries, each valid for ttl.
func NewTTLCache(maxSize int, ttl time.Duration) *TTLCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TTLCache{
		items:   make(map[string]*entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *TTLCache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return 0, false
	}
	now := c.now()
	if now.After(e.expires) {
		delete(c.items, key)
		return 0, false
	}
	e.lastUsed = now
	return e.value, true
}

// Put stores value under key, evicting the least recently used entry when the
// cache is at capacity.
func (c *TTLCache) Put(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expires = now.Add(c.ttl)
		e.lastUsed = now
		return
	}
	if len(c.items) >= c.maxSize {
		c.evictOldest()
	}
	c.items[key] = &entry{value: value, expires: now.Add(c.ttl), lastUsed: now}
}

// Len returns the current entry count.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.items {
		if first || e.lastUsed.Before(oldest) {
			oldestKey = k
			oldest = e.lastUsed
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}
