package key_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/polyepoxide/key"
)

func TestHashDeterministic(t *testing.T) {
	a := key.Hash([]byte("hello"))
	b := key.Hash([]byte("hello"))
	require.Equal(t, a, b)
}

func TestHashDistinct(t *testing.T) {
	a := key.Hash([]byte("hello"))
	b := key.Hash([]byte("world"))
	require.NotEqual(t, a, b)
}

func TestParseRoundtrip(t *testing.T) {
	k := key.Hash([]byte("roundtrip"))
	parsed, err := key.Parse(k.String())
	require.NoError(t, err)
	require.Equal(t, k, parsed)
}

func TestFromBytesWrongSize(t *testing.T) {
	_, err := key.FromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestZeroIsZero(t *testing.T) {
	require.True(t, key.Zero.IsZero())
	require.False(t, key.Hash([]byte("x")).IsZero())
}
