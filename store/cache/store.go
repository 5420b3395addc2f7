package cache

import (
	"context"

	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/store"
)

// CachedStore wraps an AsyncStore with a read-through LRU cache in front
// of Get, matching spec.md §4.8's caching decorator.
type CachedStore struct {
	inner store.AsyncStore
	cache *Cache
	store.SequentialBatcher
}

// Wrap builds a CachedStore of the given cache size around inner.
func Wrap(inner store.AsyncStore, size int) (*CachedStore, error) {
	c, err := New(size)
	if err != nil {
		return nil, err
	}
	cs := &CachedStore{inner: inner, cache: c}
	cs.SequentialBatcher = store.SequentialBatcher{Single: cs}
	return cs, nil
}

func (cs *CachedStore) Get(ctx context.Context, k key.Key) ([]byte, bool, error) {
	if v, present, cached := cs.cache.Lookup(k); cached {
		return v, present, nil
	}
	v, present, err := cs.inner.Get(ctx, k)
	if err != nil {
		return nil, false, err
	}
	cs.cache.Record(k, v, present)
	return v, present, nil
}

func (cs *CachedStore) Put(ctx context.Context, k key.Key, value []byte) error {
	if err := cs.inner.Put(ctx, k, value); err != nil {
		return err
	}
	cs.cache.Invalidate(k)
	return nil
}

func (cs *CachedStore) Has(ctx context.Context, k key.Key) (bool, error) {
	if _, present, cached := cs.cache.Lookup(k); cached {
		return present, nil
	}
	return cs.inner.Has(ctx, k)
}
