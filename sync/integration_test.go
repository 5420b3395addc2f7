package sync_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/polyepoxide/examples/bookshelf"
	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/oxide"
	"github.com/erigontech/polyepoxide/persist"
	"github.com/erigontech/polyepoxide/store"
	oxsync "github.com/erigontech/polyepoxide/sync"
)

// TestIntegrationPersistThenPullSharedChild persists a bookshelf tree into
// one MemStore and pulls it into a second, covering persist+reload (S4),
// pull with a shared child (S5), and incremental pull (S6) as a single
// realistic flow rather than three isolated unit tests.
func TestIntegrationPersistThenPullSharedChild(t *testing.T) {
	ctx := context.Background()
	source := store.NewMemStore()
	dest := store.NewMemStore()

	author := bookshelf.NewAuthor("Shared Author")
	chapter1 := bookshelf.NewChapter("Beginnings", author)
	chapter2 := bookshelf.NewChapter("Foundations", author)
	book := bookshelf.NewBook("A History of Computing", chapter1, chapter2)

	cell := oxide.NewCell(book)
	valueKey, schemaKey, err := persist.Cell[bookshelf.Book](cell, source)
	require.NoError(t, err)

	// S4: persist wrote every value blob and the schema tree into source.
	// Both chapters share one author, so there are 4 distinct value blobs
	// (book, chapter1, chapter2, author), not 5.
	for _, k := range []key.Key{book.ComputeKey(), chapter1.ComputeKey(), chapter2.ComputeKey(), author.ComputeKey()} {
		has, err := source.Has(k)
		require.NoError(t, err)
		require.True(t, has)
	}
	has, err := source.Has(schemaKey)
	require.NoError(t, err)
	require.True(t, has)

	// S5: pulling the book into an empty dest transfers the shared author
	// exactly once, and dest ends up with every blob.
	transferred, err := oxsync.Pull(ctx, store.Lift(source), store.Lift(dest), valueKey, schemaKey)
	require.NoError(t, err)

	authorCount := 0
	for _, k := range transferred {
		if k == author.ComputeKey() {
			authorCount++
		}
	}
	require.Equal(t, 1, authorCount)

	for _, k := range []key.Key{book.ComputeKey(), chapter1.ComputeKey(), chapter2.ComputeKey(), author.ComputeKey()} {
		has, err := dest.Has(k)
		require.NoError(t, err)
		require.True(t, has)
	}
	has, err = dest.Has(schemaKey)
	require.NoError(t, err)
	require.True(t, has)

	// S6: a second pull against a dest that already has everything
	// transfers nothing.
	transferred, err = oxsync.Pull(ctx, store.Lift(source), store.Lift(dest), valueKey, schemaKey)
	require.NoError(t, err)
	require.Empty(t, transferred)
}
