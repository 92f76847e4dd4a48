package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU keeps up to capacity entries, dropping the least recently read one
// when full. Entries older than ttl read as misses; a ttl of zero or less
// never expires them.
type LRU[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
	stats    Stats
	now      func() time.Time
}

type entry[T any] struct {
	key      string
	value    T
	storedAt time.Time
}

// NewLRU creates an LRU. A capacity below 1 is treated as 1.
func NewLRU[T any](capacity int, ttl time.Duration) *LRU[T] {
	return &LRU[T]{
		capacity: max(capacity, 1),
		ttl:      ttl,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	e := el.Value.(*entry[T])
	if c.expired(e) {
		c.remove(el)
		c.stats.Misses++
		return zero, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return e.value, true
}

func (c *LRU[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, value: value, storedAt: c.now()}
	if el, ok := c.entries[key]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(e)
	for c.order.Len() > c.capacity {
		c.remove(c.order.Back())
		c.stats.Evictions++
	}
}

func (c *LRU[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
}

func (c *LRU[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *LRU[T]) expired(e *entry[T]) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl
}

func (c *LRU[T]) remove(el *list.Element) {
	delete(c.entries, el.Value.(*entry[T]).key)
	c.order.Remove(el)
}
