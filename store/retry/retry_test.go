package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/store/retry"
	"github.com/erigontech/polyepoxide/store/storetest"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	ctx := context.Background()
	fake := storetest.New()
	k := key.Hash([]byte("retry-me"))
	injected := errors.New("transient backend error")
	fake.FailKeyTimes(k, injected, 2)

	rs := retry.Wrap(fake, 5*time.Second, 5)

	err := rs.Put(ctx, k, []byte("value"))
	require.NoError(t, err)

	value, ok, err := rs.Get(ctx, k)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("value"), value)

	_, put, _ := fake.Counts()
	require.GreaterOrEqual(t, put, 3)
}

func TestRetryExhaustsAndReturnsError(t *testing.T) {
	ctx := context.Background()
	fake := storetest.New()
	k := key.Hash([]byte("always-fails"))
	injected := errors.New("permanent backend error")
	fake.FailAll(injected)

	rs := retry.Wrap(fake, 200*time.Millisecond, 2)

	err := rs.Put(ctx, k, []byte("value"))
	require.Error(t, err)
	require.ErrorIs(t, err, injected)
}

func TestRetryHasSucceedsAfterTransientFailure(t *testing.T) {
	ctx := context.Background()
	fake := storetest.New()
	k := key.Hash([]byte("has-me"))
	injected := errors.New("transient backend error")
	fake.FailKeyTimes(k, injected, 1)

	rs := retry.Wrap(fake, 5*time.Second, 5)

	has, err := rs.Has(ctx, k)
	require.NoError(t, err)
	require.False(t, has)
}
