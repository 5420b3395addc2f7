// Package oxide implements the data model at the heart of the Merkle-DAG:
// the Oxide interface every storable value satisfies, the self-describing
// Structure schema type, the lazily-hashed Cell, the two-state Ref (bond),
// and the Solvent in-memory interning arena.
//
// These five concepts are kept in one Go package rather than five, even
// though spec.md's component table lists them as separate rows: Structure
// holds its children as Ref[Structure], Ref[T]'s recursive-resolve logic
// is driven by Solvent, and Solvent's generic Add/Get operate over Cell[T]
// for arbitrary T - the same mutual recursion the Rust implementation this
// module is based on keeps inside one crate. Go has no equivalent of
// "separate files, shared crate, free cross-module imports" at a finer
// grain than the package, so the idiomatic translation collapses the
// cluster into one package split by concern across files (structure.go,
// oxide.go, cell.go, ref.go, solvent.go) instead of forcing an artificial
// interface-based indirection across package boundaries.
package oxide

import "github.com/erigontech/polyepoxide/key"

// RefVisitor is called once per reference discovered while visiting an
// oxide value's refs (VisitRefs), in encounter order. resolved is the
// target's value (and may be inspected or re-encoded by the visitor) when
// the reference is resolved, or nil when it is only known by key.
type RefVisitor func(k key.Key, resolved Oxide)

// Oxide is any value that can live in the DAG: it knows its own schema, can
// encode itself canonically, can compute its content-addressed key from
// that encoding, can enumerate the keys it points to, and can rewrite
// those pointers during interning.
type Oxide interface {
	// Schema describes this value's type. For types that don't carry
	// per-instance state (most primitives), this is the same for every
	// instance; Schema is still an instance method (not associated with
	// the type alone) because Go has no notion of a function associated
	// with a type parameter's static type, only with a receiver value.
	Schema() Structure

	// Encode canonically encodes this value to bytes.
	Encode() ([]byte, error)

	// ComputeKey returns key.Hash(Encode()).
	ComputeKey() key.Key

	// VisitRefs calls visit once for every reference this value points to
	// and, through resolved references, for the references of their
	// targets as well (transitively); unresolved targets are not entered.
	VisitRefs(visit RefVisitor)

	// InternRefs rebuilds this value with every nested Ref resolved or
	// re-resolved against sv, recursively adding resolved targets to sv.
	// The Go equivalent of the Rust original's BondMapper-driven
	// map_bonds: since Solvent lives in this same package, every Oxide
	// implementation can call straight into it rather than going through
	// an indirection object.
	InternRefs(sv *Solvent) Oxide
}
