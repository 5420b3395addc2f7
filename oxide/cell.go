package oxide

import (
	"sync"

	"github.com/erigontech/polyepoxide/key"
)

// Cell wraps an oxide value and caches its computed Key. The key is
// computed lazily, on first access, then cached - this lets callers build
// large in-memory trees without paying for a hash on every intermediate
// node, matching spec.md's "lazy-hashed value holder."
type Cell[T Oxide] struct {
	value T
	once  sync.Once
	key   key.Key
}

// NewCell wraps value in a cell whose key is computed on first access.
func NewCell[T Oxide](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// NewCellWithKey wraps value in a cell whose key is already known (e.g.
// because it was just computed by the caller, or decoded alongside the
// value), skipping the lazy computation entirely.
func NewCellWithKey[T Oxide](value T, k key.Key) *Cell[T] {
	c := &Cell[T]{value: value, key: k}
	c.once.Do(func() {}) // mark done: Key() below will not recompute
	return c
}

// Key returns the cell's content-addressed key, computing it on first call.
func (c *Cell[T]) Key() key.Key {
	c.once.Do(func() {
		c.key = c.value.ComputeKey()
	})
	return c.key
}

// Value returns the cell's contained value.
func (c *Cell[T]) Value() T {
	return c.value
}
