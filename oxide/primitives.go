package oxide

import (
	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/internal/oxerr"
	"github.com/erigontech/polyepoxide/key"
)

// The types in this file are the leaf oxides: they carry no nested refs,
// so VisitRefs is a no-op and InternRefs returns the receiver unchanged,
// matching the Rust original's macro-generated primitive impls.

// Bool is a boolean oxide value.
type Bool bool

func (Bool) Schema() Structure              { return BoolSchema() }
func (b Bool) Encode() ([]byte, error)      { return dagcbor.Marshal(dagcbor.Bool(bool(b))) }
func (b Bool) ComputeKey() key.Key          { return computeKey(b) }
func (Bool) VisitRefs(RefVisitor)           {}
func (b Bool) InternRefs(*Solvent) Oxide    { return b }

// Char is a single Unicode scalar value oxide.
type Char rune

func (Char) Schema() Structure           { return CharSchema() }
func (c Char) Encode() ([]byte, error)   { return dagcbor.Marshal(dagcbor.Text(string(rune(c)))) }
func (c Char) ComputeKey() key.Key       { return computeKey(c) }
func (Char) VisitRefs(RefVisitor)        {}
func (c Char) InternRefs(*Solvent) Oxide { return c }

// Unicode is a UTF-8 text oxide value.
type Unicode string

func (Unicode) Schema() Structure           { return UnicodeSchema() }
func (u Unicode) Encode() ([]byte, error)   { return dagcbor.Marshal(dagcbor.Text(string(u))) }
func (u Unicode) ComputeKey() key.Key       { return computeKey(u) }
func (Unicode) VisitRefs(RefVisitor)        {}
func (u Unicode) InternRefs(*Solvent) Oxide { return u }

// ByteString is a raw byte-string oxide value.
type ByteString []byte

func (ByteString) Schema() Structure           { return ByteStringSchema() }
func (b ByteString) Encode() ([]byte, error)   { return dagcbor.Marshal(dagcbor.Bytes(b)) }
func (b ByteString) ComputeKey() key.Key       { return computeKey(b) }
func (ByteString) VisitRefs(RefVisitor)        {}
func (b ByteString) InternRefs(*Solvent) Oxide { return b }

// Unit is the oxide value carrying no information, used as the payload of
// unit-like schema variants.
type Unit struct{}

func (Unit) Schema() Structure           { return UnitSchema() }
func (Unit) Encode() ([]byte, error)     { return dagcbor.Marshal(dagcbor.Null()) }
func (u Unit) ComputeKey() key.Key       { return computeKey(u) }
func (Unit) VisitRefs(RefVisitor)        {}
func (u Unit) InternRefs(*Solvent) Oxide { return u }

// computeKey is the shared ComputeKey body for every leaf oxide: hash its
// own canonical encoding. Defined once here since primitive Encode never
// fails, so the error branch collapses to a panic - a genuine bug, not a
// reachable runtime condition.
func computeKey(o interface{ Encode() ([]byte, error) }) key.Key {
	b, err := o.Encode()
	if err != nil {
		panic(err)
	}
	return key.Hash(b)
}

// Uint8, Uint16, Uint32, Uint64 are fixed-width unsigned integer oxides.
type Uint8 uint8
type Uint16 uint16
type Uint32 uint32
type Uint64 uint64

// Int8, Int16, Int32, Int64 are fixed-width signed integer oxides.
type Int8 int8
type Int16 int16
type Int32 int32
type Int64 int64

func (Uint8) Schema() Structure         { return IntOf(U8) }
func (Uint16) Schema() Structure        { return IntOf(U16) }
func (Uint32) Schema() Structure        { return IntOf(U32) }
func (Uint64) Schema() Structure        { return IntOf(U64) }
func (Int8) Schema() Structure          { return IntOf(I8) }
func (Int16) Schema() Structure         { return IntOf(I16) }
func (Int32) Schema() Structure         { return IntOf(I32) }
func (Int64) Schema() Structure         { return IntOf(I64) }

func (v Uint8) Encode() ([]byte, error)  { return dagcbor.Marshal(dagcbor.Uint(uint64(v))) }
func (v Uint16) Encode() ([]byte, error) { return dagcbor.Marshal(dagcbor.Uint(uint64(v))) }
func (v Uint32) Encode() ([]byte, error) { return dagcbor.Marshal(dagcbor.Uint(uint64(v))) }
func (v Uint64) Encode() ([]byte, error) { return dagcbor.Marshal(dagcbor.Uint(uint64(v))) }
func (v Int8) Encode() ([]byte, error)   { return dagcbor.Marshal(dagcbor.Int(int64(v))) }
func (v Int16) Encode() ([]byte, error)  { return dagcbor.Marshal(dagcbor.Int(int64(v))) }
func (v Int32) Encode() ([]byte, error)  { return dagcbor.Marshal(dagcbor.Int(int64(v))) }
func (v Int64) Encode() ([]byte, error)  { return dagcbor.Marshal(dagcbor.Int(int64(v))) }

func (v Uint8) ComputeKey() key.Key  { return computeKey(v) }
func (v Uint16) ComputeKey() key.Key { return computeKey(v) }
func (v Uint32) ComputeKey() key.Key { return computeKey(v) }
func (v Uint64) ComputeKey() key.Key { return computeKey(v) }
func (v Int8) ComputeKey() key.Key   { return computeKey(v) }
func (v Int16) ComputeKey() key.Key  { return computeKey(v) }
func (v Int32) ComputeKey() key.Key  { return computeKey(v) }
func (v Int64) ComputeKey() key.Key  { return computeKey(v) }

func (Uint8) VisitRefs(RefVisitor)  {}
func (Uint16) VisitRefs(RefVisitor) {}
func (Uint32) VisitRefs(RefVisitor) {}
func (Uint64) VisitRefs(RefVisitor) {}
func (Int8) VisitRefs(RefVisitor)   {}
func (Int16) VisitRefs(RefVisitor)  {}
func (Int32) VisitRefs(RefVisitor)  {}
func (Int64) VisitRefs(RefVisitor)  {}

func (v Uint8) InternRefs(*Solvent) Oxide  { return v }
func (v Uint16) InternRefs(*Solvent) Oxide { return v }
func (v Uint32) InternRefs(*Solvent) Oxide { return v }
func (v Uint64) InternRefs(*Solvent) Oxide { return v }
func (v Int8) InternRefs(*Solvent) Oxide   { return v }
func (v Int16) InternRefs(*Solvent) Oxide  { return v }
func (v Int32) InternRefs(*Solvent) Oxide  { return v }
func (v Int64) InternRefs(*Solvent) Oxide  { return v }

// Float32, Float64 are fixed-width floating point oxides.
type Float32 float32
type Float64 float64

func (Float32) Schema() Structure { return FloatOf(F32) }
func (Float64) Schema() Structure { return FloatOf(F64) }

func (v Float32) Encode() ([]byte, error) { return dagcbor.Marshal(dagcbor.Float32(float32(v))) }
func (v Float64) Encode() ([]byte, error) { return dagcbor.Marshal(dagcbor.Float64(float64(v))) }

func (v Float32) ComputeKey() key.Key { return computeKey(v) }
func (v Float64) ComputeKey() key.Key { return computeKey(v) }

func (Float32) VisitRefs(RefVisitor) {}
func (Float64) VisitRefs(RefVisitor) {}

func (v Float32) InternRefs(*Solvent) Oxide { return v }
func (v Float64) InternRefs(*Solvent) Oxide { return v }

// DecodeByteString decodes a ByteString oxide's own wire encoding, for
// tests that need to go straight from bytes to a typed value.
func DecodeByteString(b []byte) (ByteString, error) {
	item, err := dagcbor.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	if item.Kind != dagcbor.KindBytes {
		return nil, oxerr.NewFormat("ByteString: expected bytes, got kind %d", item.Kind)
	}
	return ByteString(item.Bin), nil
}
