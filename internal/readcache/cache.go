// Package readcache memoizes public read results between writes.
package readcache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// Keys for the public slot objects.
const (
	KeyFeatured         = "featured"
	KeyFeaturedProjects = "featured:projects"
	KeyFeaturedVideos   = "featured:videos"
)

// Cache is an in-process TTL cache. A nil *Cache disables caching.
type Cache struct {
	c *cache.Cache

	// gen advances on every Flush. A load that started under an older
	// generation is returned to its caller but never stored.
	mu  sync.Mutex
	gen uint64
}

// New creates a cache whose entries live for ttl. A ttl <= 0 returns nil.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return nil
	}
	return &Cache{c: cache.New(ttl, 2*ttl)}
}

// Flush drops every entry. Called after any content write.
func (c *Cache) Flush() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.gen++
	c.c.Flush()
	c.mu.Unlock()
	log.Debug().Msg("Read cache flushed")
}

func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// store saves v unless a Flush happened since gen was read.
func (c *Cache) store(key string, v any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.c.Set(key, v, cache.DefaultExpiration)
	return true
}

// Fetch returns the cached value for key, calling load on a miss.
// Errors are never cached, nor are results of a load that overlapped a Flush.
func Fetch[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}

	if v, found := c.c.Get(key); found {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	gen := c.generation()
	v, err := load()
	if err != nil {
		return v, err
	}

	if !c.store(key, v, gen) {
		log.Debug().Str("key", key).Msg("Discarded read that overlapped a flush")
	}
	return v, nil
}
