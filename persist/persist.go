// Package persist writes an in-memory oxide value graph to a store in
// dependency-first order (reference targets stored before the value
// referencing them), along with the full schema tree for its type (schema
// blobs are written in no particular order).
package persist

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/erigontech/polyepoxide/internal/oxerr"
	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/oxide"
	"github.com/erigontech/polyepoxide/store"
)

// Cell persists c and all its transitive reference dependencies to s,
// along with the full schema tree for T. Returns the value's key and the
// schema's key.
func Cell[T oxide.Oxide](c *oxide.Cell[T], s store.Store) (valueKey, schemaKey key.Key, err error) {
	visited := mapset.NewThreadUnsafeSet[key.Key]()

	schemaSolvent := oxide.NewSolvent()
	var zero T
	schemaCell := oxide.Add(schemaSolvent, zero.Schema())
	schemaKey = schemaCell.Key()

	if err := persistSchemas(schemaSolvent, s, visited); err != nil {
		return key.Zero, key.Zero, err
	}
	if err := Value[T](c.Value(), s, visited); err != nil {
		return key.Zero, key.Zero, err
	}
	return c.Key(), schemaKey, nil
}

func persistSchemas(sv *oxide.Solvent, s store.Store, visited mapset.Set[key.Key]) error {
	var putErr error
	sv.EachStructureCell(func(k key.Key, structureCell *oxide.Cell[oxide.Structure]) bool {
		bytes, err := structureCell.Value().Encode()
		if err != nil {
			putErr = oxerr.NewFormat("persist: encoding schema %s: %v", k, err)
			return false
		}
		if err := s.Put(k, bytes); err != nil {
			putErr = oxerr.NewDest(err)
			return false
		}
		visited.Add(k)
		return true
	})
	return putErr
}

// Value persists value and all its transitive reference dependencies to
// s. Each resolved reference target is persisted recursively (its own
// targets first) when the VisitRefs walk first reaches it, so every
// dependency lands in the store before the value that references it.
// Already-visited keys are skipped, both for values already handled
// earlier in this call and across repeated calls sharing visited.
func Value[T oxide.Oxide](value T, s store.Store, visited mapset.Set[key.Key]) error {
	k := value.ComputeKey()
	if visited.Contains(k) {
		return nil
	}
	visited.Add(k)

	var childErr error
	value.VisitRefs(func(ck key.Key, resolved oxide.Oxide) {
		if childErr != nil || resolved == nil || visited.Contains(ck) {
			return
		}
		childErr = Value[oxide.Oxide](resolved, s, visited)
	})
	if childErr != nil {
		return childErr
	}

	bytes, err := value.Encode()
	if err != nil {
		return oxerr.NewFormat("persist: encoding value %s: %v", k, err)
	}
	if err := s.Put(k, bytes); err != nil {
		return oxerr.NewDest(err)
	}
	return nil
}
