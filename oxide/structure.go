package oxide

import (
	"fmt"

	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/key"
)

// Kind discriminates the variants of Structure, the self-describing type
// tree every oxide carries via its Schema method.
type Kind uint8

const (
	KindBool Kind = iota
	KindChar
	KindUnicode
	KindByteString
	KindInt
	KindFloat
	KindUnit
	KindSequence
	KindTuple
	KindRecord
	KindTagged
	KindEnum
	KindMap
	KindOrderedMap
	KindBond
	KindSelfRef
)

// IntWidth enumerates the integer widths a KindInt Structure can declare.
type IntWidth uint8

const (
	U8 IntWidth = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
)

var intWidthNames = []string{"U8", "U16", "U32", "U64", "I8", "I16", "I32", "I64"}

// FloatWidth enumerates the floating point widths a KindFloat Structure can
// declare.
type FloatWidth uint8

const (
	F32 FloatWidth = iota
	F64
)

var floatWidthNames = []string{"F32", "F64"}

// Field is one named entry of a Record or Tagged Structure; order is
// significant and is preserved from construction through wire encoding.
type Field struct {
	Name string
	Type Ref[Structure]
}

// Structure is the self-describing type of an oxide value. Every nested
// child type is reached through a Ref[Structure] rather than embedded
// directly, so a Structure's own identity (its Key) only depends on its
// children's keys, never on whether those children happen to be loaded.
//
// Structure is itself an oxide: it has a Schema (the schema of Structure),
// an Encode, a ComputeKey, and participates in interning exactly like any
// user-defined oxide type.
type Structure struct {
	Kind Kind

	IntWidth   IntWidth
	FloatWidth FloatWidth

	// Sequence, Bond: Elem. Tuple: Elems. Enum: Names.
	Elem  *Ref[Structure]
	Elems []Ref[Structure]
	Names []string

	// Record, Tagged: Fields (order significant).
	Fields []Field

	// Map, OrderedMap.
	MapKey   *Ref[Structure]
	MapValue *Ref[Structure]

	// SelfRef.
	SelfRefDepth uint32
}

// Option returns the schema of an optional T: a sequence constrained in
// practice to 0 or 1 elements (spec.md's "no native Option kind").
func Option(inner Structure) Structure {
	return Sequence(inner)
}

// ResultSchema returns the schema of a Result<T, E>: a two-variant tagged
// union, "ok" and "err".
func ResultSchema(ok, errType Structure) Structure {
	return Tagged([]Field{
		{Name: "ok", Type: NewRef(ok)},
		{Name: "err", Type: NewRef(errType)},
	})
}

func Sequence(inner Structure) Structure {
	r := NewRef(inner)
	return Structure{Kind: KindSequence, Elem: &r}
}

func Bond(inner Structure) Structure {
	r := NewRef(inner)
	return Structure{Kind: KindBond, Elem: &r}
}

func Tuple(elems ...Structure) Structure {
	refs := make([]Ref[Structure], len(elems))
	for i, e := range elems {
		refs[i] = NewRef(e)
	}
	return Structure{Kind: KindTuple, Elems: refs}
}

func Record(fields ...Field) Structure {
	return Structure{Kind: KindRecord, Fields: fields}
}

func Tagged(variants []Field) Structure {
	return Structure{Kind: KindTagged, Fields: variants}
}

func Enum(names ...string) Structure {
	return Structure{Kind: KindEnum, Names: names}
}

func MapOf(k, v Structure) Structure {
	kr, vr := NewRef(k), NewRef(v)
	return Structure{Kind: KindMap, MapKey: &kr, MapValue: &vr}
}

func OrderedMapOf(k, v Structure) Structure {
	kr, vr := NewRef(k), NewRef(v)
	return Structure{Kind: KindOrderedMap, MapKey: &kr, MapValue: &vr}
}

func SelfRef(depth uint32) Structure { return Structure{Kind: KindSelfRef, SelfRefDepth: depth} }

func IntOf(w IntWidth) Structure   { return Structure{Kind: KindInt, IntWidth: w} }
func FloatOf(w FloatWidth) Structure { return Structure{Kind: KindFloat, FloatWidth: w} }

// Schema constructors for the primitive Structure kinds. These are
// functions rather than package-level values so they don't collide with
// the like-named primitive Oxide wrapper types (oxide.Unit, oxide.Char,
// ...) defined in primitives.go.
func BoolSchema() Structure       { return Structure{Kind: KindBool} }
func CharSchema() Structure       { return Structure{Kind: KindChar} }
func UnicodeSchema() Structure    { return Structure{Kind: KindUnicode} }
func ByteStringSchema() Structure { return Structure{Kind: KindByteString} }
func UnitSchema() Structure       { return Structure{Kind: KindUnit} }

// Schema returns the schema of Structure itself: a tagged union
// describing every variant, with recursive references expressed as
// SelfRef(0) (Structure's own schema describes itself one level down).
func (Structure) Schema() Structure {
	self := SelfRef(0)
	unicode := UnicodeSchema()
	unit := UnitSchema()
	mapPayload := Record(
		Field{Name: "key", Type: NewRef(self)},
		Field{Name: "value", Type: NewRef(self)},
	)
	return Tagged([]Field{
		{Name: "Bool", Type: NewRef(unit)},
		{Name: "Char", Type: NewRef(unit)},
		{Name: "Unicode", Type: NewRef(unit)},
		{Name: "ByteString", Type: NewRef(unit)},
		{Name: "Int", Type: NewRef(Enum(intWidthNames...))},
		{Name: "Float", Type: NewRef(Enum(floatWidthNames...))},
		{Name: "Unit", Type: NewRef(unit)},
		{Name: "Sequence", Type: NewRef(self)},
		{Name: "Tuple", Type: NewRef(Sequence(self))},
		{Name: "Record", Type: NewRef(OrderedMapOf(unicode, self))},
		{Name: "Tagged", Type: NewRef(OrderedMapOf(unicode, self))},
		{Name: "Enum", Type: NewRef(Sequence(unicode))},
		{Name: "Map", Type: NewRef(mapPayload)},
		{Name: "OrderedMap", Type: NewRef(mapPayload)},
		{Name: "Bond", Type: NewRef(self)},
		{Name: "SelfRef", Type: NewRef(IntOf(U32))},
	})
}

func kindVariantName(k Kind) string {
	switch k {
	case KindBool:
		return "Bool"
	case KindChar:
		return "Char"
	case KindUnicode:
		return "Unicode"
	case KindByteString:
		return "ByteString"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindUnit:
		return "Unit"
	case KindSequence:
		return "Sequence"
	case KindTuple:
		return "Tuple"
	case KindRecord:
		return "Record"
	case KindTagged:
		return "Tagged"
	case KindEnum:
		return "Enum"
	case KindMap:
		return "Map"
	case KindOrderedMap:
		return "OrderedMap"
	case KindBond:
		return "Bond"
	case KindSelfRef:
		return "SelfRef"
	default:
		return "?"
	}
}

// Encode canonically encodes this Structure value as its own wire form:
// a single-entry map whose key is the variant name and whose value is the
// variant's payload (Structure.Schema()'s Tagged shape).
func (s Structure) Encode() ([]byte, error) {
	return dagcbor.Marshal(s.toItem())
}

func (s Structure) toItem() dagcbor.Item {
	variant := kindVariantName(s.Kind)
	var payload dagcbor.Item
	switch s.Kind {
	case KindBool, KindChar, KindUnicode, KindByteString, KindUnit:
		payload = dagcbor.Null()
	case KindInt:
		payload = dagcbor.Text(intWidthNames[s.IntWidth])
	case KindFloat:
		payload = dagcbor.Text(floatWidthNames[s.FloatWidth])
	case KindSequence, KindBond:
		payload = dagcbor.LinkItem(s.Elem.Key())
	case KindTuple:
		items := make([]dagcbor.Item, len(s.Elems))
		for i, e := range s.Elems {
			items[i] = dagcbor.LinkItem(e.Key())
		}
		payload = dagcbor.Array(items...)
	case KindRecord, KindTagged:
		entries := make([]dagcbor.Entry, len(s.Fields))
		for i, f := range s.Fields {
			entries[i] = dagcbor.Entry{Key: dagcbor.Text(f.Name), Value: dagcbor.LinkItem(f.Type.Key())}
		}
		payload = dagcbor.OrderedMap(entries...)
	case KindEnum:
		items := make([]dagcbor.Item, len(s.Names))
		for i, n := range s.Names {
			items[i] = dagcbor.Text(n)
		}
		payload = dagcbor.Array(items...)
	case KindMap, KindOrderedMap:
		payload = dagcbor.OrderedMap(
			dagcbor.Entry{Key: dagcbor.Text("key"), Value: dagcbor.LinkItem(s.MapKey.Key())},
			dagcbor.Entry{Key: dagcbor.Text("value"), Value: dagcbor.LinkItem(s.MapValue.Key())},
		)
	case KindSelfRef:
		payload = dagcbor.Uint(uint64(s.SelfRefDepth))
	}
	return dagcbor.OrderedMap(dagcbor.Entry{Key: dagcbor.Text(variant), Value: payload})
}

// ComputeKey hashes this Structure's canonical encoding.
func (s Structure) ComputeKey() key.Key {
	b, err := s.Encode()
	if err != nil {
		// Every Structure value built through this package's constructors
		// encodes; a failure here means a caller hand-built an invalid one.
		panic(err)
	}
	return key.Hash(b)
}

// VisitRefs visits every nested schema reference reachable from s
// (everything except primitives, Enum, and SelfRef, which carry no refs).
func (s Structure) VisitRefs(visit RefVisitor) {
	switch s.Kind {
	case KindSequence, KindBond:
		s.Elem.VisitRefs(visit)
	case KindTuple:
		for _, e := range s.Elems {
			e.VisitRefs(visit)
		}
	case KindRecord, KindTagged:
		for _, f := range s.Fields {
			f.Type.VisitRefs(visit)
		}
	case KindMap, KindOrderedMap:
		s.MapKey.VisitRefs(visit)
		s.MapValue.VisitRefs(visit)
	}
}

// InternRefs rebuilds s with every nested Ref[Structure] interned into s.
func (s Structure) InternRefs(sv *Solvent) Oxide {
	switch s.Kind {
	case KindSequence, KindBond:
		r := s.Elem.internRefs(sv)
		out := s
		out.Elem = &r
		return out
	case KindTuple:
		out := s
		out.Elems = make([]Ref[Structure], len(s.Elems))
		for i, e := range s.Elems {
			out.Elems[i] = e.internRefs(sv)
		}
		return out
	case KindRecord, KindTagged:
		out := s
		out.Fields = make([]Field, len(s.Fields))
		for i, f := range s.Fields {
			out.Fields[i] = Field{Name: f.Name, Type: f.Type.internRefs(sv)}
		}
		return out
	case KindMap, KindOrderedMap:
		out := s
		k := s.MapKey.internRefs(sv)
		v := s.MapValue.internRefs(sv)
		out.MapKey = &k
		out.MapValue = &v
		return out
	default:
		return s
	}
}

// Equal compares two Structure values by the key of every nested Ref
// rather than deep structural equality, matching the Rust original's
// manual PartialEq: two schemas that point at the same nested schema
// (whether or not it is currently resolved in memory) are equal.
func (s Structure) Equal(o Structure) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindBool, KindChar, KindUnicode, KindByteString, KindUnit:
		return true
	case KindInt:
		return s.IntWidth == o.IntWidth
	case KindFloat:
		return s.FloatWidth == o.FloatWidth
	case KindSequence, KindBond:
		return s.Elem.Key() == o.Elem.Key()
	case KindTuple:
		if len(s.Elems) != len(o.Elems) {
			return false
		}
		for i := range s.Elems {
			if s.Elems[i].Key() != o.Elems[i].Key() {
				return false
			}
		}
		return true
	case KindRecord, KindTagged:
		if len(s.Fields) != len(o.Fields) {
			return false
		}
		for i := range s.Fields {
			if s.Fields[i].Name != o.Fields[i].Name || s.Fields[i].Type.Key() != o.Fields[i].Type.Key() {
				return false
			}
		}
		return true
	case KindEnum:
		if len(s.Names) != len(o.Names) {
			return false
		}
		for i := range s.Names {
			if s.Names[i] != o.Names[i] {
				return false
			}
		}
		return true
	case KindMap, KindOrderedMap:
		return s.MapKey.Key() == o.MapKey.Key() && s.MapValue.Key() == o.MapValue.Key()
	case KindSelfRef:
		return s.SelfRefDepth == o.SelfRefDepth
	default:
		return false
	}
}

// DecodeStructure parses a canonically-encoded Structure blob back into an
// unresolved-children Structure (nested Refs come back as Unresolved
// pointing at the encoded child keys, matching spec.md's "bonds decode
// unresolved" rule).
func DecodeStructure(data []byte) (Structure, error) {
	item, err := dagcbor.Unmarshal(data)
	if err != nil {
		return Structure{}, err
	}
	return structureFromItem(item)
}

func structureFromItem(item dagcbor.Item) (Structure, error) {
	if item.Kind != dagcbor.KindMap || len(item.Ent) != 1 {
		return Structure{}, fmt.Errorf("structure: expected single-entry tagged map")
	}
	name := item.Ent[0].Key.Text
	payload := item.Ent[0].Value
	switch name {
	case "Bool":
		return BoolSchema(), nil
	case "Char":
		return CharSchema(), nil
	case "Unicode":
		return UnicodeSchema(), nil
	case "ByteString":
		return ByteStringSchema(), nil
	case "Unit":
		return UnitSchema(), nil
	case "Int":
		w, err := intWidthFromName(payload.Text)
		if err != nil {
			return Structure{}, err
		}
		return IntOf(w), nil
	case "Float":
		w, err := floatWidthFromName(payload.Text)
		if err != nil {
			return Structure{}, err
		}
		return FloatOf(w), nil
	case "Sequence":
		r := RefFromKey[Structure](payload.Link)
		return Structure{Kind: KindSequence, Elem: &r}, nil
	case "Bond":
		r := RefFromKey[Structure](payload.Link)
		return Structure{Kind: KindBond, Elem: &r}, nil
	case "Tuple":
		elems := make([]Ref[Structure], len(payload.Arr))
		for i, it := range payload.Arr {
			elems[i] = RefFromKey[Structure](it.Link)
		}
		return Structure{Kind: KindTuple, Elems: elems}, nil
	case "Record", "Tagged":
		fields := make([]Field, len(payload.Ent))
		for i, e := range payload.Ent {
			fields[i] = Field{Name: e.Key.Text, Type: RefFromKey[Structure](e.Value.Link)}
		}
		kind := KindRecord
		if name == "Tagged" {
			kind = KindTagged
		}
		return Structure{Kind: kind, Fields: fields}, nil
	case "Enum":
		names := make([]string, len(payload.Arr))
		for i, it := range payload.Arr {
			names[i] = it.Text
		}
		return Enum(names...), nil
	case "Map", "OrderedMap":
		m := dagcbor.AsMap(payload)
		if m == nil {
			return Structure{}, fmt.Errorf("structure: malformed map payload")
		}
		kr := RefFromKey[Structure](m["key"].Link)
		vr := RefFromKey[Structure](m["value"].Link)
		kind := KindMap
		if name == "OrderedMap" {
			kind = KindOrderedMap
		}
		return Structure{Kind: kind, MapKey: &kr, MapValue: &vr}, nil
	case "SelfRef":
		return SelfRef(uint32(payload.U)), nil
	default:
		return Structure{}, fmt.Errorf("structure: unknown variant %q", name)
	}
}

func intWidthFromName(n string) (IntWidth, error) {
	for i, name := range intWidthNames {
		if name == n {
			return IntWidth(i), nil
		}
	}
	return 0, fmt.Errorf("structure: unknown int width %q", n)
}

func floatWidthFromName(n string) (FloatWidth, error) {
	for i, name := range floatWidthNames {
		if name == n {
			return FloatWidth(i), nil
		}
	}
	return 0, fmt.Errorf("structure: unknown float width %q", n)
}
