package oxide_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/oxide"
)

// node is a minimal hand-rolled linked-list oxide used by the S2/S3
// scenarios below: a name plus an optional ref to the next node.
type node struct {
	Name oxide.Unicode
	Next oxide.Opt[node]
}

func (node) Schema() oxide.Structure {
	// next refers back to node's own type, so it breaks the cycle with
	// SelfRef(0) rather than recursing into node{}.Schema() again.
	return oxide.Record(
		oxide.Field{Name: "name", Type: oxide.NewRef(oxide.UnicodeSchema())},
		oxide.Field{Name: "next", Type: oxide.NewRef(oxide.Option(oxide.SelfRef(0)))},
	)
}

func (n node) Encode() ([]byte, error) {
	name, err := dagcbor.Unmarshal(mustEncode(n.Name))
	if err != nil {
		return nil, err
	}
	next, err := dagcbor.Unmarshal(mustEncode(n.Next))
	if err != nil {
		return nil, err
	}
	return dagcbor.Marshal(dagcbor.OrderedMap(
		dagcbor.Entry{Key: dagcbor.Text("name"), Value: name},
		dagcbor.Entry{Key: dagcbor.Text("next"), Value: next},
	))
}

func (n node) ComputeKey() key.Key {
	return key.Hash(mustEncode(n))
}

func (n node) VisitRefs(visit oxide.RefVisitor) {
	n.Next.VisitRefs(visit)
}

func (n node) InternRefs(sv *oxide.Solvent) oxide.Oxide {
	return node{Name: n.Name, Next: n.Next.InternRefs(sv).(oxide.Opt[node])}
}

func mustEncode(o oxide.Oxide) []byte {
	b, err := o.Encode()
	if err != nil {
		panic(err)
	}
	return b
}

// decodeNode parses a node's own canonical encoding back into a node
// whose Next ref, if present, is Unresolved (decoding never yields a
// Resolved ref - resolution is a later, explicit solvent operation).
func decodeNode(data []byte) (node, error) {
	item, err := dagcbor.Unmarshal(data)
	if err != nil {
		return node{}, err
	}
	m := dagcbor.AsMap(item)
	if m == nil {
		return node{}, fmt.Errorf("node: expected map")
	}
	n := node{Name: oxide.Unicode(m["name"].Text)}
	if next := m["next"]; next.Kind == dagcbor.KindArray && len(next.Arr) == 1 {
		n.Next = oxide.Opt[node]{Has: true, Val: oxide.RefFromKey[node](next.Arr[0].Link)}
	}
	return n, nil
}

// S1: primitive hashing. Two independent constructions of the same
// primitive value produce identical keys, and that key is the hash of
// its canonical encoding.
func TestScenarioS1PrimitiveHashing(t *testing.T) {
	a := oxide.Uint64(42)
	b := oxide.Uint64(42)

	require.Equal(t, a.ComputeKey(), b.ComputeKey())

	encoded, err := a.Encode()
	require.NoError(t, err)
	require.Equal(t, key.Hash(encoded), a.ComputeKey())
}

// S2: linked list of 3. Build A("first", none), B("second", ->A),
// C("third", ->B), add C to a solvent, observe solvent.Len()==3, then
// round-trip C's own encoding and see that the recovered Next ref is
// unresolved and carries the same key as B.
func TestScenarioS2LinkedList(t *testing.T) {
	a := node{Name: "first", Next: oxide.None[node]()}
	b := node{Name: "second", Next: oxide.Some(a)}
	c := node{Name: "third", Next: oxide.Some(b)}

	sv := oxide.NewSolvent()
	oxide.Add(sv, c)
	require.Equal(t, 3, sv.Len())

	encoded, err := c.Encode()
	require.NoError(t, err)
	recovered, err := decodeNode(encoded)
	require.NoError(t, err)

	require.True(t, recovered.Next.Has)
	require.False(t, recovered.Next.Val.Resolved())
	require.Equal(t, b.ComputeKey(), recovered.Next.Val.Key())
}

// S3: DAG sharing. Build leaf L, and nodes X(->L), Y(->L); add both.
// The solvent holds exactly 3 cells (L interned once, shared by both
// parents), and X/Y's refs to L carry the same key.
func TestScenarioS3DAGSharing(t *testing.T) {
	leaf := node{Name: "leaf", Next: oxide.None[node]()}
	x := node{Name: "x", Next: oxide.Some(leaf)}
	y := node{Name: "y", Next: oxide.Some(leaf)}

	sv := oxide.NewSolvent()
	oxide.Add(sv, x)
	oxide.Add(sv, y)

	require.Equal(t, 3, sv.Len())
	require.Equal(t, x.Next.Val.Key(), y.Next.Val.Key())
}

// Shape is a hand-rolled tagged union used by S7: a Circle carries a
// radius, a Rectangle carries width and height, and Point carries
// nothing.
type Shape struct {
	variant string
	radius  oxide.Float64
	width   oxide.Float64
	height  oxide.Float64
}

func NewCircle(r float64) Shape { return Shape{variant: "Circle", radius: oxide.Float64(r)} }
func NewRectangle(w, h float64) Shape {
	return Shape{variant: "Rectangle", width: oxide.Float64(w), height: oxide.Float64(h)}
}
func NewPoint() Shape { return Shape{variant: "Point"} }

func (Shape) Schema() oxide.Structure {
	return oxide.Tagged([]oxide.Field{
		{Name: "Circle", Type: oxide.NewRef(oxide.Record(
			oxide.Field{Name: "r", Type: oxide.NewRef(oxide.FloatOf(oxide.F64))},
		))},
		{Name: "Rectangle", Type: oxide.NewRef(oxide.Record(
			oxide.Field{Name: "w", Type: oxide.NewRef(oxide.FloatOf(oxide.F64))},
			oxide.Field{Name: "h", Type: oxide.NewRef(oxide.FloatOf(oxide.F64))},
		))},
		{Name: "Point", Type: oxide.NewRef(oxide.UnitSchema())},
	})
}

// Encode emits a single-entry map {variantName: payload}, the same
// tagged-union wire convention Structure and Res use for themselves.
func (s Shape) Encode() ([]byte, error) {
	var payload dagcbor.Item
	switch s.variant {
	case "Circle":
		payload = dagcbor.OrderedMap(dagcbor.Entry{Key: dagcbor.Text("r"), Value: dagcbor.Float64(float64(s.radius))})
	case "Rectangle":
		payload = dagcbor.OrderedMap(
			dagcbor.Entry{Key: dagcbor.Text("w"), Value: dagcbor.Float64(float64(s.width))},
			dagcbor.Entry{Key: dagcbor.Text("h"), Value: dagcbor.Float64(float64(s.height))},
		)
	case "Point":
		payload = dagcbor.Null()
	default:
		return nil, fmt.Errorf("shape: unknown variant %q", s.variant)
	}
	return dagcbor.Marshal(dagcbor.OrderedMap(dagcbor.Entry{Key: dagcbor.Text(s.variant), Value: payload}))
}

func (s Shape) ComputeKey() key.Key {
	return key.Hash(mustEncode(s))
}

func (Shape) VisitRefs(oxide.RefVisitor)              {}
func (s Shape) InternRefs(*oxide.Solvent) oxide.Oxide { return s }

// decodeShape parses a Shape's own canonical encoding back into a Shape.
func decodeShape(data []byte) (Shape, error) {
	item, err := dagcbor.Unmarshal(data)
	if err != nil {
		return Shape{}, err
	}
	if item.Kind != dagcbor.KindMap || len(item.Ent) != 1 {
		return Shape{}, fmt.Errorf("shape: expected single-entry tagged map")
	}
	variant := item.Ent[0].Key.Text
	payload := dagcbor.AsMap(item.Ent[0].Value)
	switch variant {
	case "Circle":
		return NewCircle(payload["r"].F64), nil
	case "Rectangle":
		return NewRectangle(payload["w"].F64, payload["h"].F64), nil
	case "Point":
		return NewPoint(), nil
	default:
		return Shape{}, fmt.Errorf("shape: unknown variant %q", variant)
	}
}

// S7: tagged-union variant. An encoded Rectangle value decodes back to
// the same variant, and the schema reports Tagged with exactly the
// three declared variant names.
func TestScenarioS7TaggedUnion(t *testing.T) {
	rect := NewRectangle(3, 4)

	schema := rect.Schema()
	require.Equal(t, oxide.KindTagged, schema.Kind)
	require.Len(t, schema.Fields, 3)

	names := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
	}
	require.ElementsMatch(t, []string{"Circle", "Rectangle", "Point"}, names)

	// Diff the full shape against an independently-built expectation
	// (Structure.Equal powers cmp's comparison here, same as elsewhere in
	// this package) rather than only spot-checking kind and field names.
	expected := oxide.Tagged([]oxide.Field{
		{Name: "Circle", Type: oxide.NewRef(oxide.Record(
			oxide.Field{Name: "r", Type: oxide.NewRef(oxide.FloatOf(oxide.F64))},
		))},
		{Name: "Rectangle", Type: oxide.NewRef(oxide.Record(
			oxide.Field{Name: "w", Type: oxide.NewRef(oxide.FloatOf(oxide.F64))},
			oxide.Field{Name: "h", Type: oxide.NewRef(oxide.FloatOf(oxide.F64))},
		))},
		{Name: "Point", Type: oxide.NewRef(oxide.UnitSchema())},
	})
	if diff := cmp.Diff(expected, schema); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}

	encoded, err := rect.Encode()
	require.NoError(t, err)
	decoded, err := decodeShape(encoded)
	require.NoError(t, err)
	require.Equal(t, rect, decoded)
}
