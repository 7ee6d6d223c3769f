package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// MemoryTreeCache memoizes expanded material trees in process memory.
// go-cache is concurrency safe, which matters because the catalog
// watcher may clear the cache while a computation reads it.
type MemoryTreeCache struct {
	cache *gocache.Cache
}

// NewMemoryTreeCache creates a tree cache with the given TTL. A zero
// TTL keeps trees until explicitly cleared or evicted by a rebuild.
func NewMemoryTreeCache(ttl time.Duration) *MemoryTreeCache {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &MemoryTreeCache{
		cache: gocache.New(expiration, 10*time.Minute),
	}
}

// Get returns the cached trees for a list content key
func (c *MemoryTreeCache) Get(key string) ([]*materials.MaterialNode, bool) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	trees, ok := value.([]*materials.MaterialNode)
	return trees, ok
}

// Put stores the trees for a list content key
func (c *MemoryTreeCache) Put(key string, trees []*materials.MaterialNode) {
	c.cache.SetDefault(key, trees)
}

// Clear drops every cached tree. Invoked on catalog reload.
func (c *MemoryTreeCache) Clear() {
	c.cache.Flush()
}
