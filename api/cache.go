package api

import (
	"net/http"
	"sync"
	"time"
)

const postsCacheTTL = 10 * time.Second

type cachedResponse struct {
	body      []byte
	expiresAt time.Time
}

// responseCache is a small in-process TTL cache for one hot listing
// endpoint, keyed by the full request URL. Writes do not invalidate it;
// the staleness window is bounded by the TTL.
type responseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cachedResponse
	now     func() time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:     ttl,
		entries: make(map[string]cachedResponse),
		now:     time.Now,
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.body, true
}

func (c *responseCache) set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Expired entries are evicted lazily on read; sweep here too so the
	// map does not grow without bound under unique query strings.
	now := c.now()
	for k, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = cachedResponse{body: body, expiresAt: now.Add(c.ttl)}
}

// serveCached writes a cached body with an x-cache HIT header. Returns
// false on miss so the handler computes and stores the response.
func (c *responseCache) serveCached(w http.ResponseWriter, key string) bool {
	body, ok := c.get(key)
	if !ok {
		w.Header().Set("x-cache", "MISS")
		return false
	}
	w.Header().Set("x-cache", "HIT")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
	return true
}
