package albums

import (
	"sync"
	"time"
)

// resultCache memoizes fetch results per requested source for a fixed
// TTL. Hits are returned as copies with the cache header set so one
// caller's result never aliases another's.
type resultCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result   *FetchResult
	storedAt time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *resultCache) get(key string) *FetchResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	age := time.Since(e.storedAt)
	if age > c.ttl {
		delete(c.entries, key)
		return nil
	}

	out := *e.result
	out.Cached = true
	out.CacheAge = age.Milliseconds()
	return &out
}

func (c *resultCache) put(key string, res *FetchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: res, storedAt: time.Now()}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
