package api

import (
	"github.com/coocood/freecache"
	"github.com/snappulse/snappulse/pkg/metrics"
)

// Read-path cache defaults. The TTL is short relative to the collector
// poll interval, so cached responses never outlive a poll cycle.
const (
	defaultMaxTrendingLimit = 100
	defaultCacheSizeMB      = 16
	defaultCacheTTLSeconds  = 60
)

// responseCache stores rendered JSON bodies for the hot read endpoints.
// A successful ingest clears it so reads never serve pre-write data
// longer than a single request.
type responseCache struct {
	cache *freecache.Cache
	ttl   int
}

func newResponseCache(sizeMB, ttlSeconds int) *responseCache {
	return &responseCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttlSeconds,
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	body, err := c.cache.Get([]byte(key))
	if err != nil {
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return body, true
}

func (c *responseCache) set(key string, body []byte) {
	// Oversized entries are silently skipped; freecache rejects them.
	_ = c.cache.Set([]byte(key), body, c.ttl)
}

func (c *responseCache) clear() {
	c.cache.Clear()
}
