// Package lru provides the search result cache on top of hashicorp/golang-lru.
package lru

import (
	"github.com/fwojciec/schemadex"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of distinct queries kept before the cache is cleared.
const DefaultSize = 256

// Ensure Cache implements schemadex.ResultCache at compile time.
var _ schemadex.ResultCache = (*Cache)(nil)

// Cache stores search results by query key. Once it holds Size entries the
// next insertion clears it completely, so memory stays bounded over a long
// session without per-entry eviction. The underlying LRU is sized so that it
// never evicts on its own.
type Cache struct {
	cache *lru.Cache[string, []string]
	size  int
}

// NewCache creates a Cache holding at most size entries.
// A non-positive size selects DefaultSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[string, []string](size)
	return &Cache{cache: c, size: size}
}

// Get returns the names stored under key.
func (c *Cache) Get(key string) ([]string, bool) {
	return c.cache.Get(key)
}

// Put stores names under key, clearing the cache first if it is full.
func (c *Cache) Put(key string, names []string) {
	if !c.cache.Contains(key) && c.cache.Len() >= c.size {
		c.cache.Purge()
	}
	c.cache.Add(key, names)
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Size returns the configured bound.
func (c *Cache) Size() int {
	return c.size
}
