package oxide

import (
	"fmt"

	"github.com/erigontech/polyepoxide/internal/oxerr"
	"github.com/erigontech/polyepoxide/internal/telemetry"
	"github.com/erigontech/polyepoxide/key"
)

// Solvent is an in-memory, key-deduplicating interning arena: every value
// added to it is stored at most once, keyed by its content-addressed key,
// and the cell returned for a duplicate Add is the one already held.
//
// Solvent is type-erased internally (it holds arbitrary Cell[T] behind
// any) but type-safe at its API: Add/Get/Bond/Resolve are generic and
// type-assert on the way out, matching the Rust original's single
// HashMap<Key, Box<dyn Any>> plus typed accessor methods.
//
// Solvent is not safe for concurrent use, mirroring the Rust original's
// single-owner (&mut self) design: wrap it in your own mutex if shared.
type Solvent struct {
	cells map[key.Key]any
}

// NewSolvent returns an empty arena.
func NewSolvent() *Solvent {
	return &Solvent{cells: make(map[key.Key]any)}
}

// Add interns value into sv. If value's nested refs resolve to other
// values, those are interned too (via value.InternRefs), so the cell
// returned is fully resolved through to its leaves. If a cell with the
// same key is already present, it is returned unchanged and value is
// discarded (content-addressing guarantees it would decode identically).
//
// A Ref's encoding is just its target key, independent of the pointed-to
// type, so two different types can collide on the same key. That's a
// caller bug, not something Solvent can prevent, so it falls through and
// overwrites the existing cell with the new value rather than panicking,
// after logging the mismatch.
func Add[T Oxide](sv *Solvent, value T) *Cell[T] {
	k := value.ComputeKey()
	if existing, ok := sv.cells[k]; ok {
		if c, ok := existing.(*Cell[T]); ok {
			return c
		}
		telemetry.L().Warnw("solvent: type mismatch on add, overwriting existing cell",
			"err", oxerr.NewTypeMismatch(k, fmt.Sprintf("%T", value), fmt.Sprintf("%T", existing)))
	}
	interned := value.InternRefs(sv).(T)
	c := NewCellWithKey(interned, k)
	sv.cells[k] = c
	return c
}

// Get looks up a previously interned cell of type T by key.
func Get[T Oxide](sv *Solvent, k key.Key) (*Cell[T], bool) {
	v, ok := sv.cells[k]
	if !ok {
		return nil, false
	}
	c, ok := v.(*Cell[T])
	return c, ok
}

// Bond interns value and returns a resolved Ref pointing at it.
func Bond[T Oxide](sv *Solvent, value T) Ref[T] {
	return RefFromCell(Add(sv, value))
}

// Resolve upgrades r to a resolved Ref if its target is present in sv,
// leaving it unresolved (unchanged) otherwise.
func Resolve[T Oxide](sv *Solvent, r Ref[T]) Ref[T] {
	if r.Resolved() {
		return r
	}
	if c, ok := Get[T](sv, r.Key()); ok {
		return RefFromCell(c)
	}
	return r
}

// Contains reports whether a cell with key k has been interned.
func (sv *Solvent) Contains(k key.Key) bool {
	_, ok := sv.cells[k]
	return ok
}

// Len returns the number of distinct cells interned.
func (sv *Solvent) Len() int { return len(sv.cells) }

// IsEmpty reports whether no cells have been interned.
func (sv *Solvent) IsEmpty() bool { return len(sv.cells) == 0 }

// Stats summarizes an arena's contents for debugging and tests.
type Stats struct {
	CellCount int
}

// Stats returns a snapshot of this arena's size.
func (sv *Solvent) Stats() Stats {
	return Stats{CellCount: len(sv.cells)}
}

// EachStructureCell calls fn once for every interned Structure cell (in
// unspecified order), stopping early if fn returns false. Used by persist
// to write out a schema tree that was built up in a scratch Solvent.
func (sv *Solvent) EachStructureCell(fn func(key.Key, *Cell[Structure]) bool) {
	for k, v := range sv.cells {
		c, ok := v.(*Cell[Structure])
		if !ok {
			continue
		}
		if !fn(k, c) {
			return
		}
	}
}
