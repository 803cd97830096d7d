package liquidity

import (
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/metrics"
)

// priceCacheSize bounds the cache; the token universe is small but query
// keys are caller-controlled, so the map cannot be unbounded.
const priceCacheSize = 4096

// PriceCache is a TTL-bounded cache for externally fetched spot prices,
// backed by a bounded LRU. Expired entries are removed by the lookup that
// finds them, there is no background sweeper.
type PriceCache struct {
	ttl     time.Duration
	entries *lruCache[string, priceEntry]
}

type priceEntry struct {
	value    float64
	expireAt time.Time
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	return &PriceCache{
		ttl:     ttl,
		entries: newLRUCache[string, priceEntry](priceCacheSize),
	}
}

// Get returns the cached price if present and fresh.
func (c *PriceCache) Get(key string) (float64, bool) {
	e, ok := c.entries.get(key)
	if !ok {
		metrics.PriceCacheMisses.Inc()
		return 0, false
	}
	if time.Now().After(e.expireAt) {
		c.entries.remove(key)
		metrics.PriceCacheSize.Set(float64(c.entries.len()))
		metrics.PriceCacheMisses.Inc()
		return 0, false
	}

	metrics.PriceCacheHits.Inc()
	return e.value, true
}

// Set stores a price with the cache TTL.
func (c *PriceCache) Set(key string, value float64) {
	c.entries.set(key, priceEntry{value: value, expireAt: time.Now().Add(c.ttl)})
	metrics.PriceCacheSize.Set(float64(c.entries.len()))
}

// Len returns the number of entries, expired ones included.
func (c *PriceCache) Len() int {
	return c.entries.len()
}
