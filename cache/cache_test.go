package cache_test

import (
	"sync"
	"testing"
	"time"

	"vndbrss/cache"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
}

func TestGetFreshAndExpired(t *testing.T) {
	clk := newClock()
	c := cache.NewCache[string](cache.CacheConfig{TTL: time.Minute, Now: clk.Now})

	_, ok := c.Get("/offi-en")
	assert.False(t, ok, "empty cache should miss")

	c.Set("/offi-en", "<rss/>")

	value, ok := c.Get("/offi-en")
	assert.True(t, ok)
	assert.Equal(t, "<rss/>", value)

	clk.Advance(59 * time.Second)
	_, ok = c.Get("/offi-en")
	assert.True(t, ok, "entry should still be fresh before the ttl")

	clk.Advance(time.Second)
	_, ok = c.Get("/offi-en")
	assert.False(t, ok, "entry expires when now reaches expiresAt")
}

func TestStaleIgnoresExpiry(t *testing.T) {
	clk := newClock()
	c := cache.NewCache[string](cache.CacheConfig{TTL: time.Minute, Now: clk.Now})

	_, ok := c.Stale("/uo-ch")
	assert.False(t, ok)

	c.Set("/uo-ch", "old")
	clk.Advance(24 * time.Hour)

	_, ok = c.Get("/uo-ch")
	assert.False(t, ok)

	value, ok := c.Stale("/uo-ch")
	assert.True(t, ok)
	assert.Equal(t, "old", value)
}

func TestSetWithTTLOverridesDefault(t *testing.T) {
	clk := newClock()
	c := cache.NewCache[string](cache.CacheConfig{TTL: time.Hour, Now: clk.Now})

	c.SetWithTTL("/offi-jp", "short", time.Second)
	clk.Advance(2 * time.Second)

	_, ok := c.Get("/offi-jp")
	assert.False(t, ok)
}

func TestKeysAreIndependent(t *testing.T) {
	c := cache.NewCache[string](cache.CacheConfig{TTL: time.Minute})

	c.Set("/offi-en", "en")
	c.Set("/offi-ch", "ch")

	en, _ := c.Get("/offi-en")
	ch, _ := c.Get("/offi-ch")
	assert.Equal(t, "en", en)
	assert.Equal(t, "ch", ch)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Stale("/offi-jp")
	assert.False(t, ok)
}

func TestFreshCount(t *testing.T) {
	clk := newClock()
	c := cache.NewCache[string](cache.CacheConfig{TTL: time.Minute, Now: clk.Now})

	c.Set("/a", "a")
	clk.Advance(2 * time.Minute)
	c.Set("/b", "b")

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.Fresh())
}

func TestDefaultTTL(t *testing.T) {
	clk := newClock()
	c := cache.NewCache[string](cache.CacheConfig{Now: clk.Now})

	c.Set("/a", "a")
	clk.Advance(4 * time.Minute)
	_, ok := c.Get("/a")
	assert.True(t, ok)

	clk.Advance(time.Minute)
	_, ok = c.Get("/a")
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := cache.NewCache[int](cache.CacheConfig{TTL: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("/shared", i)
			_, _ = c.Get("/shared")
			_, _ = c.Stale("/shared")
		}(i)
	}
	wg.Wait()

	_, ok := c.Get("/shared")
	assert.True(t, ok)
}
