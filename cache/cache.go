// Package cache keeps rendered feeds in memory with a per-entry TTL.
//
// Entries are never evicted on expiry. An expired entry is no longer
// returned by Get but remains available through Stale, so callers can
// fall back to the last good value when the upstream fails.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

type CacheConfig struct {
	TTL time.Duration

	// Now overrides the clock, used in tests
	Now func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type Cache[V any] struct {
	store *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewCache[V any](config CacheConfig) *Cache[V] {
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	log.WithFields(log.Fields{
		"ttl": config.TTL,
	}).Debug("Cache initialized")

	return &Cache[V]{
		// go-cache only acts as a concurrent store, freshness is tracked per entry
		store: gocache.New(gocache.NoExpiration, 0),
		ttl:   config.TTL,
		now:   config.Now,
	}
}

// Get returns the value for key while it is still fresh
func (c *Cache[V]) Get(key string) (V, bool) {
	e, ok := c.lookup(key)
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Stale returns the last value stored for key regardless of expiry
func (c *Cache[V]) Stale(key string) (V, bool) {
	e, ok := c.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.store.Set(key, entry[V]{value: value, expiresAt: c.now().Add(ttl)}, gocache.NoExpiration)
	log.WithFields(log.Fields{
		"key": key,
		"ttl": ttl,
	}).Debug("Cache stored")
}

// Len counts stored entries, fresh or stale
func (c *Cache[V]) Len() int {
	return c.store.ItemCount()
}

// Fresh counts entries that Get would return
func (c *Cache[V]) Fresh() int {
	now := c.now()
	count := 0
	for _, item := range c.store.Items() {
		if e, ok := item.Object.(entry[V]); ok && now.Before(e.expiresAt) {
			count++
		}
	}
	return count
}

func (c *Cache[V]) lookup(key string) (entry[V], bool) {
	value, found := c.store.Get(key)
	if !found {
		return entry[V]{}, false
	}
	e, ok := value.(entry[V])
	return e, ok
}
