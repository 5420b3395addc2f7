// Package retry wraps a store.AsyncStore with exponential-backoff retry
// around every call, for stores backed by flaky transports (remote
// peers, network-attached object storage).
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/erigontech/polyepoxide/internal/telemetry"
	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/store"
)

// RetryingStore wraps an AsyncStore, retrying each call with exponential
// backoff up to MaxElapsed / MaxRetries.
type RetryingStore struct {
	inner      store.AsyncStore
	maxElapsed time.Duration
	maxRetries uint64
	store.SequentialBatcher
}

// Wrap builds a RetryingStore around inner.
func Wrap(inner store.AsyncStore, maxElapsed time.Duration, maxRetries int) *RetryingStore {
	rs := &RetryingStore{inner: inner, maxElapsed: maxElapsed, maxRetries: uint64(maxRetries)}
	rs.SequentialBatcher = store.SequentialBatcher{Single: rs}
	return rs
}

func (rs *RetryingStore) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = rs.maxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(b, rs.maxRetries), ctx)
}

func (rs *RetryingStore) Get(ctx context.Context, k key.Key) ([]byte, bool, error) {
	var value []byte
	var present bool
	err := backoff.RetryNotify(func() error {
		v, ok, err := rs.inner.Get(ctx, k)
		if err != nil {
			return err
		}
		value, present = v, ok
		return nil
	}, rs.policy(ctx), func(err error, d time.Duration) {
		telemetry.L().Warnw("store get retrying", "key", k.String(), "backoff", d, "error", err)
	})
	return value, present, err
}

func (rs *RetryingStore) Put(ctx context.Context, k key.Key, value []byte) error {
	return backoff.RetryNotify(func() error {
		return rs.inner.Put(ctx, k, value)
	}, rs.policy(ctx), func(err error, d time.Duration) {
		telemetry.L().Warnw("store put retrying", "key", k.String(), "backoff", d, "error", err)
	})
}

func (rs *RetryingStore) Has(ctx context.Context, k key.Key) (bool, error) {
	var present bool
	err := backoff.RetryNotify(func() error {
		ok, err := rs.inner.Has(ctx, k)
		if err != nil {
			return err
		}
		present = ok
		return nil
	}, rs.policy(ctx), func(err error, d time.Duration) {
		telemetry.L().Warnw("store has retrying", "key", k.String(), "backoff", d, "error", err)
	})
	return present, err
}
