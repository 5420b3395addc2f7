// Package store defines the raw key/value persistence boundary every
// higher layer (persist, sync) is built on: synchronous and asynchronous
// forms, plus an in-memory reference implementation.
//
// Stores operate on raw bytes - serialization is the concern of the
// oxide package, not of Store. A Store does not know about schemas or
// oxide types.
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/erigontech/polyepoxide/internal/oxerr"
	"github.com/erigontech/polyepoxide/key"
)

// Store is a synchronous key/value store for oxide bytes.
type Store interface {
	// Get retrieves the bytes at k, or (nil, false, nil) if absent.
	Get(k key.Key) ([]byte, bool, error)
	// Put stores value at k, overwriting any existing value.
	Put(k key.Key, value []byte) error
	// Has reports whether k is present, without fetching its value.
	Has(k key.Key) (bool, error)
}

// AsyncStore is the asynchronous counterpart of Store, for network-backed
// or otherwise latency-bound implementations. GetMany/PutMany/HasMany
// have sequential default implementations (see SequentialBatcher) that a
// concrete store can override with real batching.
type AsyncStore interface {
	Get(ctx context.Context, k key.Key) ([]byte, bool, error)
	Put(ctx context.Context, k key.Key, value []byte) error
	Has(ctx context.Context, k key.Key) (bool, error)

	GetMany(ctx context.Context, keys []key.Key) ([][]byte, []bool, error)
	PutMany(ctx context.Context, keys []key.Key, values [][]byte) error
	HasMany(ctx context.Context, keys []key.Key) ([]bool, error)
}

// SequentialBatcher implements AsyncStore's batch methods by calling the
// single-item methods in sequence. Embed it in a concrete AsyncStore (see
// Lift below) to get correct, if unbatched, GetMany/PutMany/HasMany for
// free; override them individually where the backing store can do better.
type SequentialBatcher struct {
	Single singleItemStore
}

type singleItemStore interface {
	Get(ctx context.Context, k key.Key) ([]byte, bool, error)
	Put(ctx context.Context, k key.Key, value []byte) error
	Has(ctx context.Context, k key.Key) (bool, error)
}

func (b SequentialBatcher) GetMany(ctx context.Context, keys []key.Key) ([][]byte, []bool, error) {
	values := make([][]byte, len(keys))
	present := make([]bool, len(keys))
	for i, k := range keys {
		v, ok, err := b.Single.Get(ctx, k)
		if err != nil {
			return nil, nil, err
		}
		values[i], present[i] = v, ok
	}
	return values, present, nil
}

func (b SequentialBatcher) PutMany(ctx context.Context, keys []key.Key, values [][]byte) error {
	if len(keys) != len(values) {
		return oxerr.NewFormat("store: PutMany key/value count mismatch: %d keys, %d values", len(keys), len(values))
	}
	for i, k := range keys {
		if err := b.Single.Put(ctx, k, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b SequentialBatcher) HasMany(ctx context.Context, keys []key.Key) ([]bool, error) {
	present := make([]bool, len(keys))
	for i, k := range keys {
		ok, err := b.Single.Has(ctx, k)
		if err != nil {
			return nil, err
		}
		present[i] = ok
	}
	return present, nil
}

// asyncLift adapts a synchronous Store to AsyncStore, running every call
// inline on the caller's goroutine and respecting ctx cancellation
// between batch items.
type asyncLift struct {
	inner Store
}

// Lift adapts a synchronous Store to AsyncStore, matching the Rust
// original's blanket `impl<S: Store> AsyncStore for S`.
func Lift(s Store) AsyncStore {
	l := asyncLift{inner: s}
	return struct {
		asyncLift
		SequentialBatcher
	}{
		asyncLift:         l,
		SequentialBatcher: SequentialBatcher{Single: l},
	}
}

func (l asyncLift) Get(ctx context.Context, k key.Key) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, errors.WithStack(err)
	}
	return l.inner.Get(k)
}

func (l asyncLift) Put(ctx context.Context, k key.Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	return l.inner.Put(k, value)
}

func (l asyncLift) Has(ctx context.Context, k key.Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.WithStack(err)
	}
	return l.inner.Has(k)
}
