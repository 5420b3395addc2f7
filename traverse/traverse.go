// Package traverse finds reference targets inside an encoded oxide value
// by walking it alongside its schema, without decoding into any concrete
// Go type. This is what lets sync discover dependencies of values it has
// never seen a Go type for.
package traverse

import (
	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/oxide"
)

// RefTarget is one reference discovered inside a value: the key of the
// thing it points to, and the key of that thing's schema.
type RefTarget struct {
	ValueKey  key.Key
	SchemaKey key.Key
}

// CollectRefs parses data as CBOR and walks it against schema, appending
// every reference target it finds to refs and returning the extended
// slice. Mismatches between schema and payload shape (wrong CBOR major
// type, missing field, wrong map arity) are not errors: finding no refs
// in a mismatched region is simply what tolerant traversal means here.
func CollectRefs(data []byte, schema oxide.Structure, refs []RefTarget) ([]RefTarget, error) {
	item, err := dagcbor.Unmarshal(data)
	if err != nil {
		return refs, err
	}
	return collect(item, schema, refs), nil
}

func collect(value dagcbor.Item, schema oxide.Structure, refs []RefTarget) []RefTarget {
	switch schema.Kind {
	case oxide.KindBond:
		if value.Kind != dagcbor.KindLink {
			return refs
		}
		inner, ok := schema.Elem.Value()
		if !ok {
			return refs
		}
		return append(refs, RefTarget{ValueKey: value.Link, SchemaKey: inner.ComputeKey()})

	case oxide.KindSequence:
		if value.Kind != dagcbor.KindArray {
			return refs
		}
		inner, ok := schema.Elem.Value()
		if !ok {
			return refs
		}
		for _, elem := range value.Arr {
			refs = collect(elem, inner, refs)
		}
		return refs

	case oxide.KindTuple:
		if value.Kind != dagcbor.KindArray {
			return refs
		}
		n := len(schema.Elems)
		if len(value.Arr) < n {
			n = len(value.Arr)
		}
		for i := 0; i < n; i++ {
			inner, ok := schema.Elems[i].Value()
			if !ok {
				continue
			}
			refs = collect(value.Arr[i], inner, refs)
		}
		return refs

	case oxide.KindRecord:
		if value.Kind != dagcbor.KindMap {
			return refs
		}
		fields := dagcbor.AsMap(value)
		for _, f := range schema.Fields {
			fv, ok := fields[f.Name]
			if !ok {
				continue
			}
			inner, ok := f.Type.Value()
			if !ok {
				continue
			}
			refs = collect(fv, inner, refs)
		}
		return refs

	case oxide.KindTagged:
		if value.Kind != dagcbor.KindMap || len(value.Ent) != 1 {
			return refs
		}
		entry := value.Ent[0]
		if entry.Key.Kind != dagcbor.KindText {
			return refs
		}
		for _, f := range schema.Fields {
			if f.Name != entry.Key.Text {
				continue
			}
			inner, ok := f.Type.Value()
			if !ok {
				return refs
			}
			return collect(entry.Value, inner, refs)
		}
		return refs

	case oxide.KindMap, oxide.KindOrderedMap:
		if value.Kind != dagcbor.KindMap {
			return refs
		}
		// As in the original implementation, only map values are
		// traversed: IPLD map keys are plain text, not arbitrary
		// schema-typed oxides.
		valueSchema, ok := schema.MapValue.Value()
		if !ok {
			return refs
		}
		for _, e := range value.Ent {
			refs = collect(e.Value, valueSchema, refs)
		}
		return refs

	default:
		return refs
	}
}
