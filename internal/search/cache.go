package search

import (
	"sync"
	"time"
)

// answerCache is a small TTL-bounded answer cache owned by the Service.
// It replaces the ad hoc module-level caches of earlier scripts with an
// explicit component of defined capacity and lifetime.
type answerCache struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	capacity int
	ttl      time.Duration
}

type cacheEntry struct {
	answer  string
	expires time.Time
}

func newAnswerCache(capacity int, ttl time.Duration) *answerCache {
	return &answerCache{
		entries:  make(map[string]cacheEntry),
		capacity: capacity,
		ttl:      ttl,
	}
}

func (c *answerCache) get(query string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[query]
	if !ok {
		return "", false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, query)
		return "", false
	}
	return e.answer, true
}

func (c *answerCache) set(query, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[query] = cacheEntry{answer: answer, expires: time.Now().Add(c.ttl)}
}

// evictLocked removes expired entries, then the soonest-to-expire entry
// if the cache is still full. Caller holds the lock.
func (c *answerCache) evictLocked() {
	now := time.Now()
	for q, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, q)
		}
	}
	if len(c.entries) < c.capacity {
		return
	}

	var oldest string
	var oldestExpiry time.Time
	for q, e := range c.entries {
		if oldest == "" || e.expires.Before(oldestExpiry) {
			oldest = q
			oldestExpiry = e.expires
		}
	}
	if oldest != "" {
		delete(c.entries, oldest)
	}
}
