package enrichment

import (
	"sync"

	"github.com/jonathan/smile-fortune/internal/metrics"
	"github.com/jonathan/smile-fortune/internal/types"
)

// Cache maps a lowercase candidate id to its enriched attributes for the life of
// the process. Entries are never evicted: the id universe is the fixed band table.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*types.EntityAttributes
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*types.EntityAttributes)}
}

// Get returns a copy of the cached attributes.
func (c *Cache) Get(id string) (*types.EntityAttributes, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Put stores attributes. A second write for the same id replaces an equal value.
func (c *Cache) Put(id string, e *types.EntityAttributes) {
	c.mu.Lock()
	c.entries[id] = e.Clone()
	n := len(c.entries)
	c.mu.Unlock()
	metrics.CacheEntries.Set(float64(n))
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
