package cache

import (
	"sync"
	"time"
)

// CacheEntry represents a cached stats result with its insertion time
type CacheEntry struct {
	Value     interface{}
	Timestamp time.Time
}

// StatsCache provides a thread-safe in-memory cache for computed statistics.
// Entries expire after a TTL and the whole cache is cleared whenever the
// underlying transaction set changes.
type StatsCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	mutex      sync.RWMutex
}

// NewStatsCache creates a new stats cache with the given expiration
func NewStatsCache(expiration time.Duration) *StatsCache {
	if expiration <= 0 {
		expiration = 5 * time.Minute
	}

	return &StatsCache{
		cache:      make(map[string]CacheEntry),
		expiration: expiration,
	}
}

// Get retrieves a cached value if present and not expired
func (c *StatsCache) Get(key string) (interface{}, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists || time.Since(entry.Timestamp) > c.expiration {
		return nil, false
	}

	return entry.Value, true
}

// Put stores a computed value under the given key
func (c *StatsCache) Put(key string, value interface{}) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = CacheEntry{
		Value:     value,
		Timestamp: time.Now(),
	}
}

// Clear drops all entries from the cache
func (c *StatsCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

// SetExpiration sets the cache expiration duration
func (c *StatsCache) SetExpiration(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.expiration = duration
}

// Size returns the number of items in the cache
func (c *StatsCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *StatsCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := time.Now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}

	return count
}
