// Package compress wraps a store.Store or store.AsyncStore with Snappy
// compression on the way in and decompression on the way out, so large
// oxide blobs cost less at rest.
package compress

import (
	"context"

	"github.com/golang/snappy"

	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/store"
)

// magic distinguishes compressed payloads from any legacy uncompressed
// bytes already present in a store being migrated.
var magic = [4]byte{'p', 'x', 's', '1'}

func wrap(raw []byte) []byte {
	out := make([]byte, 0, 4+snappy.MaxEncodedLen(len(raw)))
	out = append(out, magic[:]...)
	return append(out, snappy.Encode(nil, raw)...)
}

// unwrap decompresses a magic-prefixed payload and returns any other
// (legacy, uncompressed) payload unchanged.
func unwrap(stored []byte) ([]byte, error) {
	if len(stored) < 4 || [4]byte(stored[:4]) != magic {
		return stored, nil
	}
	return snappy.Decode(nil, stored[4:])
}

// Store wraps a synchronous store.Store with Snappy compression.
type Store struct {
	inner store.Store
}

// Wrap builds a compressing Store around inner.
func Wrap(inner store.Store) *Store { return &Store{inner: inner} }

func (s *Store) Get(k key.Key) ([]byte, bool, error) {
	stored, ok, err := s.inner.Get(k)
	if err != nil || !ok {
		return nil, ok, err
	}
	raw, err := unwrap(stored)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *Store) Put(k key.Key, value []byte) error {
	return s.inner.Put(k, wrap(value))
}

func (s *Store) Has(k key.Key) (bool, error) {
	return s.inner.Has(k)
}

// AsyncStore wraps an asynchronous store.AsyncStore with Snappy
// compression.
type AsyncStore struct {
	inner store.AsyncStore
	store.SequentialBatcher
}

// WrapAsync builds a compressing AsyncStore around inner.
func WrapAsync(inner store.AsyncStore) *AsyncStore {
	as := &AsyncStore{inner: inner}
	as.SequentialBatcher = store.SequentialBatcher{Single: as}
	return as
}

func (s *AsyncStore) Get(ctx context.Context, k key.Key) ([]byte, bool, error) {
	stored, ok, err := s.inner.Get(ctx, k)
	if err != nil || !ok {
		return nil, ok, err
	}
	raw, err := unwrap(stored)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *AsyncStore) Put(ctx context.Context, k key.Key, value []byte) error {
	return s.inner.Put(ctx, k, wrap(value))
}

func (s *AsyncStore) Has(ctx context.Context, k key.Key) (bool, error) {
	return s.inner.Has(ctx, k)
}
