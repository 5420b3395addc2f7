// Package cache wraps a store.AsyncStore with an in-memory LRU read
// cache, so repeated Get calls for hot keys skip the underlying store.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erigontech/polyepoxide/key"
)

// entry is what the LRU actually holds: the bytes, and whether the key
// was present (so a cached "not found" doesn't need to re-ask the store).
type entry struct {
	value   []byte
	present bool
}

// Cache is an LRU read cache keyed by content key. It is safe for
// concurrent use - the underlying hashicorp/golang-lru Cache is
// internally locked.
type Cache struct {
	lru *lru.Cache[key.Key, entry]
}

// New builds a cache holding at most size entries.
func New(size int) (*Cache, error) {
	l, err := lru.New[key.Key, entry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Lookup returns a cached result for k, if any.
func (c *Cache) Lookup(k key.Key) (value []byte, present bool, cached bool) {
	e, ok := c.lru.Get(k)
	if !ok {
		return nil, false, false
	}
	return e.value, e.present, true
}

// Record stores a fetch result (including a "not found") for k.
func (c *Cache) Record(k key.Key, value []byte, present bool) {
	c.lru.Add(k, entry{value: value, present: present})
}

// Invalidate drops any cached entry for k, used after a Put so a stale
// "not found" can't linger.
func (c *Cache) Invalidate(k key.Key) {
	c.lru.Remove(k)
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int { return c.lru.Len() }
