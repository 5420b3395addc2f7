// Package sync transfers an oxide value and all its transitive
// dependencies between two AsyncStores, in dependency-first order, so
// that "dest has the key" always implies "dest has everything that key
// depends on" (the invariant ensure/pull/push build on to skip
// already-synced subgraphs without separate visited-set bookkeeping per
// call).
package sync

import (
	"bytes"
	"context"

	"github.com/google/btree"
	"golang.org/x/sync/errgroup"

	"github.com/erigontech/polyepoxide/internal/oxerr"
	"github.com/erigontech/polyepoxide/internal/telemetry"
	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/oxide"
	"github.com/erigontech/polyepoxide/store"
	"github.com/erigontech/polyepoxide/traverse"
)

// Pull transfers value_key and everything it transitively depends on
// from source to dest, returning the keys actually transferred. Value keys
// are in dependency-first order: a dependency's key always appears before
// the key of whatever referenced it. Schema keys are recorded as each
// schema blob is written, a schema before the nested schemas it points to.
func Pull(ctx context.Context, source, dest store.AsyncStore, valueKey, schemaKey key.Key) ([]key.Key, error) {
	var transferred []key.Key
	schemas := oxide.NewSolvent()
	if err := pullRecursive(ctx, source, dest, valueKey, schemaKey, schemas, &transferred); err != nil {
		return nil, err
	}
	return transferred, nil
}

// Push transfers value_key and its dependencies from source to dest. It
// is semantically identical to Pull - sync has no notion of direction,
// only of which side initiates the call.
func Push(ctx context.Context, source, dest store.AsyncStore, valueKey, schemaKey key.Key) ([]key.Key, error) {
	return Pull(ctx, source, dest, valueKey, schemaKey)
}

func pullRecursive(ctx context.Context, source, dest store.AsyncStore, valueKey, schemaKey key.Key, schemas *oxide.Solvent, transferred *[]key.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	has, err := dest.Has(ctx, valueKey)
	if err != nil {
		return oxerr.NewDest(err)
	}
	if has {
		return nil
	}

	schemaCell, err := ensureSchema(ctx, source, dest, schemaKey, schemas, transferred)
	if err != nil {
		return err
	}

	valueBytes, found, err := source.Get(ctx, valueKey)
	if err != nil {
		return oxerr.NewSource(err)
	}
	if !found {
		return oxerr.NewNotFound(valueKey)
	}

	var refs []traverse.RefTarget
	refs, err = traverse.CollectRefs(valueBytes, schemaCell.Value(), nil)
	if err != nil {
		return oxerr.NewFormat("sync: value %s parse error: %v", valueKey, err)
	}

	for _, ref := range refs {
		if err := pullRecursive(ctx, source, dest, ref.ValueKey, ref.SchemaKey, schemas, transferred); err != nil {
			return err
		}
	}

	if err := dest.Put(ctx, valueKey, valueBytes); err != nil {
		return oxerr.NewDest(err)
	}
	*transferred = append(*transferred, valueKey)
	return nil
}

// ensureSchema makes sure schemaKey's Structure is present at dest
// (fetching it, and everything it in turn needs, from source if not),
// and returns it resolved in schemas for traversal.
func ensureSchema(ctx context.Context, source, dest store.AsyncStore, schemaKey key.Key, schemas *oxide.Solvent, transferred *[]key.Key) (*oxide.Cell[oxide.Structure], error) {
	if cell, ok := oxide.Get[oxide.Structure](schemas, schemaKey); ok {
		return cell, nil
	}

	destHas, err := dest.Has(ctx, schemaKey)
	if err != nil {
		return nil, oxerr.NewDest(err)
	}

	schemaBytes, found, err := source.Get(ctx, schemaKey)
	if err != nil {
		return nil, oxerr.NewSource(err)
	}
	if !found {
		return nil, oxerr.NewNotFound(schemaKey)
	}

	if !destHas {
		if err := dest.Put(ctx, schemaKey, schemaBytes); err != nil {
			return nil, oxerr.NewDest(err)
		}
		*transferred = append(*transferred, schemaKey)
	}

	schema, err := oxide.DecodeStructure(schemaBytes)
	if err != nil {
		return nil, oxerr.NewFormat("sync: schema %s parse error: %v", schemaKey, err)
	}

	if err := ensureNestedSchemas(ctx, source, dest, schema, schemas, transferred); err != nil {
		return nil, err
	}

	return oxide.Add(schemas, schema), nil
}

// ensureNestedSchemas makes sure every schema schema directly points to
// (by key, whether or not it is resolved in memory) is present at dest.
// Children are visited in canonical key order rather than declaration
// order, so the schema-solvent fills up deterministically regardless of
// how a Structure happened to be built.
func ensureNestedSchemas(ctx context.Context, source, dest store.AsyncStore, schema oxide.Structure, schemas *oxide.Solvent, transferred *[]key.Key) error {
	var childKeys []key.Key
	schema.VisitRefs(func(k key.Key, _ oxide.Oxide) {
		childKeys = append(childKeys, k)
	})
	for _, k := range sortedKeys(childKeys) {
		if _, ok := oxide.Get[oxide.Structure](schemas, k); ok {
			continue
		}
		if _, err := ensureSchema(ctx, source, dest, k, schemas, transferred); err != nil {
			return err
		}
	}
	return nil
}

// sortedKeys returns keys in ascending byte order via a btree rather than
// sort.Slice, matching the canonical/sorted iteration the wider oxide
// container stack uses for anything that needs stable ordering over a key
// set.
func sortedKeys(keys []key.Key) []key.Key {
	tree := btree.NewG(32, func(a, b key.Key) bool {
		return bytes.Compare(a[:], b[:]) < 0
	})
	for _, k := range keys {
		tree.ReplaceOrInsert(k)
	}
	sorted := make([]key.Key, 0, tree.Len())
	tree.Ascend(func(k key.Key) bool {
		sorted = append(sorted, k)
		return true
	})
	return sorted
}

// RootRequest names one value (and its schema) to sync in a PullAll
// fan-out.
type RootRequest struct {
	ValueKey  key.Key
	SchemaKey key.Key
}

// PullAll runs Pull concurrently for every request, bounded to fanOut
// concurrent root pulls, and returns the union of all transferred keys.
// Each root gets its own Solvent of schema cells, so roots make no
// assumptions about each other's progress; the final result still
// benefits from dest.Has() shortcutting shared dependencies already
// transferred by an earlier-finishing root.
func PullAll(ctx context.Context, source, dest store.AsyncStore, requests []RootRequest, fanOut int) ([]key.Key, error) {
	results := make([][]key.Key, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	if fanOut > 0 {
		g.SetLimit(fanOut)
	}
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			transferred, err := Pull(gctx, source, dest, req.ValueKey, req.SchemaKey)
			if err != nil {
				return err
			}
			results[i] = transferred
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []key.Key
	seen := make(map[key.Key]bool)
	for _, keys := range results {
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				all = append(all, k)
			}
		}
	}
	telemetry.L().Infow("pull all complete", "roots", len(requests), "transferred", len(all))
	return all, nil
}
