package services

import (
	"sync"
	"time"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	DefaultCacheSize = 40
	DefaultCacheTTL  = 10 * time.Minute
)

type cacheItem struct {
	resp       models.StreamerInfoResponse
	accessedAt time.Time
}

// Cache holds lookup results keyed by query.
//
// An entry expires once it goes unread for the TTL. When full, the least recently accessed entry is evicted.
type Cache struct {
	items *xsync.MapOf[string, cacheItem]
	size  int
	ttl   time.Duration
	now   func() time.Time
	evict sync.Mutex
}

// NewCache creates a cache. Non-positive size or ttl use the defaults; a nil now uses [time.Now].
func NewCache(size int, ttl time.Duration, now func() time.Time) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{items: xsync.NewMapOf[string, cacheItem](), size: size, ttl: ttl, now: now}
}

// Get returns the cached response for key and refreshes its access time.
func (c *Cache) Get(key string) (models.StreamerInfoResponse, bool) {
	var (
		resp models.StreamerInfoResponse
		hit  bool
	)
	now := c.now()
	c.items.Compute(key, func(item cacheItem, loaded bool) (cacheItem, bool) {
		if !loaded {
			return item, true
		}
		if now.Sub(item.accessedAt) >= c.ttl {
			return item, true
		}
		item.accessedAt = now
		resp, hit = item.resp, true
		return item, false
	})
	return resp, hit
}

// Put stores resp under key, evicting the least recently accessed entries beyond the size.
func (c *Cache) Put(key string, resp models.StreamerInfoResponse) {
	c.items.Store(key, cacheItem{resp: resp, accessedAt: c.now()})

	c.evict.Lock()
	defer c.evict.Unlock()
	for c.items.Size() > c.size {
		oldest, found := "", false
		var oldestAt time.Time
		c.items.Range(func(k string, item cacheItem) bool {
			if k == key {
				return true
			}
			if !found || item.accessedAt.Before(oldestAt) {
				oldest, oldestAt, found = k, item.accessedAt, true
			}
			return true
		})
		if !found {
			return
		}
		c.items.Delete(oldest)
	}
}

// Len returns the number of cached entries, expired ones included.
func (c *Cache) Len() int { return c.items.Size() }

// Purge drops every entry.
func (c *Cache) Purge() { c.items.Clear() }
