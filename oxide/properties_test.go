package oxide_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/erigontech/polyepoxide/oxide"
)

// TestPropertyDeterminism backs universal property 1: encode(v) always
// produces the same bytes for value-equal inputs.
func TestPropertyDeterminism(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := oxide.Unicode(rapid.String().Draw(rt, "s"))
		b1, err := s.Encode()
		require.NoError(rt, err)
		b2, err := s.Encode()
		require.NoError(rt, err)
		require.Equal(rt, b1, b2)
		require.Equal(rt, s.ComputeKey(), s.ComputeKey())
	})
}

// TestPropertyRoundtrip backs universal property 2: decode(encode(v)) == v,
// checked here against ByteString, the one primitive with a standalone
// Decode function (the other primitives have no decoder in this package).
func TestPropertyRoundtrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := oxide.ByteString(rapid.SliceOfN(rapid.Uint8(), 0, 32).Draw(rt, "b"))
		encoded, err := b.Encode()
		require.NoError(rt, err)
		decoded, err := oxide.DecodeByteString(encoded)
		require.NoError(rt, err)
		require.Equal(rt, []byte(b), []byte(decoded))
	})
}

// TestPropertyRefTransparency backs universal property 3: key(v) is
// independent of whether a contained Ref is Unresolved or Resolved.
func TestPropertyRefTransparency(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inner := oxide.Unicode(rapid.String().Draw(rt, "inner"))
		resolved := oxide.NewSeq(inner)
		unresolved := oxide.Seq[oxide.Unicode]{oxide.RefFromKey[oxide.Unicode](inner.ComputeKey())}

		require.Equal(rt, resolved.ComputeKey(), unresolved.ComputeKey())
	})
}

// TestPropertySchemaStability backs universal property 4: T.Schema()
// returns equal Structures on every call, and the schema's key is stable.
func TestPropertySchemaStability(t *testing.T) {
	var zero oxide.Unicode
	s1 := zero.Schema()
	s2 := zero.Schema()
	require.True(t, s1.Equal(s2))
	require.Equal(t, s1.ComputeKey(), s2.ComputeKey())
}

// TestPropertySolventDedup backs universal property 5: adding two values
// with equal keys returns the same cell, and the solvent grows by at most
// one per distinct key.
func TestPropertySolventDedup(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		sv := oxide.NewSolvent()

		c1 := oxide.Add(sv, oxide.Unicode(s))
		lenAfterFirst := sv.Len()
		c2 := oxide.Add(sv, oxide.Unicode(s))

		require.Same(rt, c1, c2)
		require.Equal(rt, lenAfterFirst, sv.Len())
	})
}

// TestPropertySolventClosure backs universal property 6: after add(v),
// every key reachable from v through Resolved Refs is interned.
func TestPropertySolventClosure(t *testing.T) {
	leaf := oxide.Unicode("leaf")
	seq := oxide.NewSeq(leaf, oxide.Unicode("other"))

	sv := oxide.NewSolvent()
	oxide.Add(sv, seq)

	require.True(t, sv.Contains(leaf.ComputeKey()))
	require.True(t, sv.Contains(oxide.Unicode("other").ComputeKey()))
}
