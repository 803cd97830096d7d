package liquidity

import (
	"container/list"
	"sync"
)

// lruCache is a bounded concurrent LRU map. Inserting at capacity evicts the
// least recently used entry.
type lruCache[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]*list.Element
	order   *list.List
	maxSize int
	zero    V
}

type lruItem[K comparable, V any] struct {
	key   K
	value V
}

func newLRUCache[K comparable, V any](maxSize int) *lruCache[K, V] {
	return &lruCache[K, V]{
		items:   make(map[K]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
	}
}

func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return c.zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruItem[K, V]).value, true
}

func (c *lruCache[K, V]) set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruItem[K, V]).value = value
		return
	}

	for len(c.items) >= c.maxSize {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.order.Remove(back)
		delete(c.items, back.Value.(*lruItem[K, V]).key)
	}

	elem := c.order.PushFront(&lruItem[K, V]{key: key, value: value})
	c.items[key] = elem
}

func (c *lruCache[K, V]) remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

func (c *lruCache[K, V]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
