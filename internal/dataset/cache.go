package dataset

import (
	"sync"
	"time"

	"epipulse/pkg/contracts/domain"
)

// CacheKey identifies one cached pipeline result: the resolved source path
// plus the file's modification time, so a rewritten file never serves stale
// rows.
type CacheKey struct {
	Path    string
	ModTime time.Time
}

// Cache stores cleaned datasets keyed by source file identity. Values are
// deep-copied on the way in and on the way out, so no caller ever shares
// observation pointers with the cache or with another caller.
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]domain.Dataset
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[CacheKey]domain.Dataset),
	}
}

// Get returns an independent copy of the dataset cached for the given source
// identity, or false when there is none.
func (c *Cache) Get(path string, modTime time.Time) (domain.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.entries[CacheKey{Path: path, ModTime: modTime}]
	if !ok {
		return domain.Dataset{}, false
	}
	return cached.Clone(), true
}

// Put stores an independent copy of ds under the given source identity,
// replacing any previous entry for the same key.
func (c *Cache) Put(path string, modTime time.Time, ds domain.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[CacheKey{Path: path, ModTime: modTime}] = ds.Clone()
}

// Invalidate drops every entry for the given path, across all modification
// times.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.Path == path {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
