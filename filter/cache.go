package filter

import (
	"container/list"
	"sync"
)

// lruCache is a thread-safe LRU cache of compiled filters keyed by expression
type lruCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	mu        sync.Mutex
}

type entry struct {
	key    string
	filter *Filter
}

func newLRUCache(size int) *lruCache {
	return &lruCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

// Get returns the cached filter for key and marks it most recently used
func (c *lruCache) Get(key string) (*Filter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, exists := c.items[key]
	if !exists {
		return nil, false
	}

	c.evictList.MoveToFront(node)
	return node.Value.(*entry).filter, true
}

// Put adds or replaces the filter for key, evicting the oldest entry when full
func (c *lruCache) Put(key string, f *Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.items[key]; exists {
		c.evictList.MoveToFront(node)
		node.Value.(*entry).filter = f
		return
	}

	c.items[key] = c.evictList.PushFront(&entry{key: key, filter: f})

	if c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

func (c *lruCache) removeOldest() {
	node := c.evictList.Back()
	if node != nil {
		c.evictList.Remove(node)
		delete(c.items, node.Value.(*entry).key)
	}
}

// Clear removes all items from the cache
func (c *lruCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

// Len returns the number of cached filters
func (c *lruCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictList.Len()
}
