package loader

import (
	"sync"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

// Cache maps topic ids to their resolved, ordered files. Entries are never
// evicted; Reset exists for tests and explicit reloads.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]catalog.ContentItem
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]catalog.ContentItem)}
}

// Get returns a copy of the cached files for topicID.
func (c *Cache) Get(topicID string) ([]catalog.ContentItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.entries[topicID]
	if !ok {
		return nil, false
	}
	return cloneItems(items), true
}

// Put stores files for topicID. Overwriting with an identical sequence is
// harmless.
func (c *Cache) Put(topicID string, items []catalog.ContentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[topicID] = cloneItems(items)
}

// Len returns the number of cached topics.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]catalog.ContentItem)
}

func cloneItems(items []catalog.ContentItem) []catalog.ContentItem {
	out := make([]catalog.ContentItem, len(items))
	copy(out, items)
	return out
}
