package oxide

import (
	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/key"
)

// Ref is a typed reference from one oxide to another (spec.md's "bond").
// It exists in two states:
//   - Unresolved: only the target's key is known (the usual state right
//     after decoding a value read from a store).
//   - Resolved: the target's Cell is in hand, so its value can be read
//     without a store round trip.
//
// Ref is itself an Oxide: it always serializes as just the target's key
// (a Link), whether or not it happens to be resolved right now.
type Ref[T Oxide] struct {
	unresolved key.Key
	cell       *Cell[T]
}

// NewRef builds a resolved Ref around an ephemeral cell for value. The
// cell is not interned into any Solvent; use Solvent.Add/Bond for that.
func NewRef[T Oxide](value T) Ref[T] {
	return Ref[T]{cell: NewCell(value)}
}

// RefFromKey builds an unresolved Ref pointing at k.
func RefFromKey[T Oxide](k key.Key) Ref[T] {
	return Ref[T]{unresolved: k}
}

// RefFromCell builds a resolved Ref around an existing cell.
func RefFromCell[T Oxide](c *Cell[T]) Ref[T] {
	return Ref[T]{cell: c}
}

// Resolved reports whether this Ref currently has its target's value in
// hand.
func (r Ref[T]) Resolved() bool { return r.cell != nil }

// Key returns the target's key, whether or not this Ref is resolved.
func (r Ref[T]) Key() key.Key {
	if r.cell != nil {
		return r.cell.Key()
	}
	return r.unresolved
}

// Cell returns the resolved cell, or nil if this Ref is unresolved.
func (r Ref[T]) Cell() *Cell[T] { return r.cell }

// Value returns the target's value and true if this Ref is resolved, or
// the zero value and false otherwise.
func (r Ref[T]) Value() (T, bool) {
	if r.cell == nil {
		var zero T
		return zero, false
	}
	return r.cell.Value(), true
}

// Schema returns the schema of a reference to T: a Bond wrapping T's
// schema.
func (r Ref[T]) Schema() Structure {
	var zero T
	return Bond(zero.Schema())
}

// Encode always emits just the target's key, as a Link - resolved or not,
// the wire form is identical (spec.md §3.5).
func (r Ref[T]) Encode() ([]byte, error) {
	return dagcbor.Marshal(dagcbor.LinkItem(r.Key()))
}

// ComputeKey hashes this Ref's own encoding (its Link), not the target's.
func (r Ref[T]) ComputeKey() key.Key {
	b, _ := r.Encode() // Encode never fails: Link always encodes.
	return key.Hash(b)
}

// VisitRefs visits the target key (with its value, if resolved), then
// recurses into the target value's own refs.
func (r Ref[T]) VisitRefs(visit RefVisitor) {
	if v, ok := r.Value(); ok {
		visit(r.Key(), v)
		v.VisitRefs(visit)
		return
	}
	visit(r.Key(), nil)
}

// InternRefs interns the resolved target into sv (recursively adding its
// own nested refs), or, if unresolved, tries to upgrade to resolved by
// looking the target up in sv. Matches the Rust original's
// SolventBondMapper::map_bond.
func (r Ref[T]) InternRefs(sv *Solvent) Oxide {
	return r.internRefs(sv)
}

func (r Ref[T]) internRefs(sv *Solvent) Ref[T] {
	if v, ok := r.Value(); ok {
		return RefFromCell(Add(sv, v))
	}
	if c, ok := Get[T](sv, r.unresolved); ok {
		return RefFromCell(c)
	}
	return r
}
