// Package cache holds decoded textures keyed by image path in a bounded
// least-recently-used map. The cache owns one reference of every texture it
// stores and releases it when the entry leaves the cache.
//
// A Cache is not safe for concurrent use; the viewer touches it only from
// its consumer goroutine.
package cache

import (
	"glance/internal/errors"
	"glance/internal/log"
	"glance/internal/render"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Cache is a bounded LRU of textures.
type Cache struct {
	name      string
	capacity  int
	lru       *simplelru.LRU[string, *render.Texture]
	evictions int
}

// New creates a cache holding at most capacity textures. name only labels
// log entries.
func New(name string, capacity int) (*Cache, error) {
	c := &Cache{name: name, capacity: capacity}
	lru, err := simplelru.NewLRU[string, *render.Texture](capacity, c.onEvict)
	if err != nil {
		return nil, errors.NewConfigError("invalid cache capacity", name, errors.InvalidConfig, err)
	}
	c.lru = lru
	return c, nil
}

// onEvict runs for capacity evictions, Remove and Purge alike.
func (c *Cache) onEvict(path string, tex *render.Texture) {
	log.LogWithFields(log.F("cache", c.name), log.F("path", path), log.F("texture", tex.Name())).Debug("texture released")
	tex.Release()
}

// Get returns the texture for path and marks it most recently used.
// The returned texture is borrowed; call Retain to keep it past eviction.
func (c *Cache) Get(path string) (*render.Texture, bool) {
	return c.lru.Get(path)
}

// Peek returns the texture for path without touching recency.
func (c *Cache) Peek(path string) (*render.Texture, bool) {
	return c.lru.Peek(path)
}

// Contains reports presence without touching recency.
func (c *Cache) Contains(path string) bool {
	return c.lru.Contains(path)
}

// Add stores tex under path, taking over the caller's reference. A texture
// already stored under path is replaced and released. It reports whether
// the least recently used entry was evicted to make room.
func (c *Cache) Add(path string, tex *render.Texture) bool {
	old, replaced := c.lru.Peek(path)
	evicted := c.lru.Add(path, tex)
	if replaced {
		// the LRU does not call onEvict for updates
		old.Release()
	}
	if evicted {
		c.evictions++
	}
	return evicted
}

// Remove drops and releases the entry for path.
func (c *Cache) Remove(path string) bool {
	return c.lru.Remove(path)
}

// Purge releases every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Keys returns the cached paths from least to most recently used.
func (c *Cache) Keys() []string {
	return c.lru.Keys()
}

func (c *Cache) Len() int { return c.lru.Len() }

func (c *Cache) Cap() int { return c.capacity }

// Evictions counts entries dropped for capacity.
func (c *Cache) Evictions() int { return c.evictions }
