package traverse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/oxide"
	"github.com/erigontech/polyepoxide/traverse"
)

func TestCollectRefsBond(t *testing.T) {
	target := oxide.Unicode("hi")
	ref := oxide.NewRef(target)
	schema := oxide.Bond(oxide.UnicodeSchema())

	data, err := dagcbor.Marshal(dagcbor.LinkItem(ref.Key()))
	require.NoError(t, err)

	refs, err := traverse.CollectRefs(data, schema, nil)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, ref.Key(), refs[0].ValueKey)
	require.Equal(t, oxide.UnicodeSchema().ComputeKey(), refs[0].SchemaKey)
}

func TestCollectRefsSequence(t *testing.T) {
	a := oxide.NewRef(oxide.Unicode("a"))
	b := oxide.NewRef(oxide.Unicode("b"))
	schema := oxide.Sequence(oxide.Bond(oxide.UnicodeSchema()))

	data, err := dagcbor.Marshal(dagcbor.Array(
		dagcbor.LinkItem(a.Key()),
		dagcbor.LinkItem(b.Key()),
	))
	require.NoError(t, err)

	refs, err := traverse.CollectRefs(data, schema, nil)
	require.NoError(t, err)
	require.Len(t, refs, 2)
}

func TestCollectRefsRecordFieldMismatchTolerant(t *testing.T) {
	schema := oxide.Record(oxide.Field{Name: "author", Type: oxide.NewRef(oxide.Bond(oxide.UnicodeSchema()))})

	// payload has no "author" key at all - traversal should find nothing,
	// not error.
	data, err := dagcbor.Marshal(dagcbor.OrderedMap(dagcbor.Entry{Key: dagcbor.Text("title"), Value: dagcbor.Text("x")}))
	require.NoError(t, err)

	refs, err := traverse.CollectRefs(data, schema, nil)
	require.NoError(t, err)
	require.Empty(t, refs)
}

func TestCollectRefsMapOnlyRecursesIntoValues(t *testing.T) {
	kref := oxide.NewRef(oxide.Unicode("k"))
	vref := oxide.NewRef(oxide.Unicode("v"))
	schema := oxide.MapOf(oxide.Bond(oxide.UnicodeSchema()), oxide.Bond(oxide.UnicodeSchema()))

	// The key is a link too, so a traversal that also entered keys would
	// report two refs instead of one.
	data, err := dagcbor.Marshal(dagcbor.Map(
		dagcbor.Entry{Key: dagcbor.LinkItem(kref.Key()), Value: dagcbor.LinkItem(vref.Key())},
	))
	require.NoError(t, err)

	refs, err := traverse.CollectRefs(data, schema, nil)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, vref.Key(), refs[0].ValueKey)
}
