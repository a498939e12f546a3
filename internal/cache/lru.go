package cache

import (
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// sizedEntry is one cache slot: a value, its byte-accounting size, and
// whether it is dirty (uncommitted) and therefore pinned against
// eviction.
type sizedEntry[V any] struct {
	value V
	bytes int
	dirty bool
}

// sizedLRU is a byte-size-aware LRU built on hashicorp/golang-lru/v2.
// Its own capacity is set effectively unbounded; the Monitor enforces
// the real, shared byte budget across all caches by calling
// evictOldestUnpinned directly instead of relying on count-based
// eviction.
type sizedLRU[K comparable, V any] struct {
	mu    sync.Mutex
	lru   *lru.Cache[K, *sizedEntry[V]]
	bytes int64
}

func newSizedLRU[K comparable, V any]() *sizedLRU[K, V] {
	c, _ := lru.New[K, *sizedEntry[V]](math.MaxInt32)
	return &sizedLRU[K, V]{lru: c}
}

func (c *sizedLRU[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// put inserts or replaces key; a replaced entry's bytes are subtracted
// from the running total before the new entry's bytes are added.
func (c *sizedLRU[K, V]) put(key K, value V, bytes int, dirty bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.lru.Peek(key); ok {
		c.bytes -= int64(old.bytes)
	}
	c.lru.Add(key, &sizedEntry[V]{value: value, bytes: bytes, dirty: dirty})
	c.bytes += int64(bytes)
}

func (c *sizedLRU[K, V]) remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.lru.Peek(key); ok {
		c.bytes -= int64(e.bytes)
		c.lru.Remove(key)
	}
}

// markClean unpins a dirty entry, e.g. after commit. Does not affect
// recency, since it is bookkeeping rather than use.
func (c *sizedLRU[K, V]) markClean(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.lru.Peek(key); ok {
		e.dirty = false
	}
}

// evictOldestUnpinned evicts the least-recently-used entry that is not
// dirty. Returns the bytes freed and whether anything was evicted.
func (c *sizedLRU[K, V]) evictOldestUnpinned() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.lru.Keys() {
		e, ok := c.lru.Peek(k)
		if !ok || e.dirty {
			continue
		}
		c.lru.Remove(k)
		freed := int64(e.bytes)
		c.bytes -= freed
		return freed, true
	}
	return 0, false
}

func (c *sizedLRU[K, V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && e.dirty {
			continue
		}
		c.lru.Remove(k)
	}
	c.bytes = c.dirtyBytesLocked()
}

func (c *sizedLRU[K, V]) dirtyBytesLocked() int64 {
	var total int64
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && e.dirty {
			total += int64(e.bytes)
		}
	}
	return total
}

func (c *sizedLRU[K, V]) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

func (c *sizedLRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
