package profile

import (
	"time"

	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/patrickmn/go-cache"
)

// Cache keeps lookup results in memory for a fixed TTL. Misses are cached
// as nil so repeated runs over the same list do not re-query.
type Cache struct {
	cache *cache.Cache
}

// NewCache creates a cache whose entries expire after ttl and are purged
// every 2*ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		cache: cache.New(ttl, 2*ttl),
	}
}

// Get returns the cached profile for key. found is false when the key is
// absent; a cached miss returns (nil, true).
func (c *Cache) Get(key string) (*domain.Profile, bool) {
	x, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	p, _ := x.(*domain.Profile)
	if p == nil {
		return nil, true
	}
	clone := *p
	return &clone, true
}

// Set stores p under key. A nil p records a miss.
func (c *Cache) Set(key string, p *domain.Profile) {
	if p == nil {
		c.cache.Set(key, (*domain.Profile)(nil), cache.DefaultExpiration)
		return
	}
	clone := *p
	c.cache.Set(key, &clone, cache.DefaultExpiration)
}

// Len returns the number of entries, including expired ones not yet purged.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}
