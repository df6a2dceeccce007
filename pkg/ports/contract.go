package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAnnotationStoreContract runs a suite of tests to verify that an AnnotationStore
// implementation adheres to the defined interface contract.
func RunAnnotationStoreContract(t *testing.T, store AnnotationStore) {
	ctx := context.Background()
	itemID := "contract-" + time.Now().Format("20060102150405")

	newRecord := func(id string) *domain.AnnotationRecord {
		item := domain.TokenizedItem{
			ItemID: id,
			Turns: [][]string{
				{"the", "cat", "sleeps", domain.EndOfTurn},
				{"really", "?", domain.EndOfTurn},
			},
		}
		rec := domain.NewRecord(item, domain.DefaultNumTriples)
		rec.Triples[0][domain.SlotSubject] = domain.Slot{{Turn: 0, Token: 0}, {Turn: 0, Token: 1}}
		rec.Triples[0][domain.SlotPredicate] = domain.Slot{{Turn: 0, Token: 2}}
		rec.Triples[0][domain.SlotCertainty] = domain.Slot{{Turn: 1, Token: 0}}
		return rec
	}

	t.Run("Exists Before Save", func(t *testing.T) {
		ok, err := store.Exists(ctx, itemID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Save and Load", func(t *testing.T) {
		rec := newRecord(itemID)

		err := store.Save(ctx, itemID, rec)
		require.NoError(t, err, "Save should not return error")

		ok, err := store.Exists(ctx, itemID)
		require.NoError(t, err)
		assert.True(t, ok, "Exists should be true after Save")

		loaded, err := store.Load(ctx, itemID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.Tokens, loaded.Tokens)
		assert.Equal(t, rec.Skipped, loaded.Skipped)
		require.Len(t, loaded.Triples, domain.DefaultNumTriples)
		for i := range rec.Triples {
			for j := range rec.Triples[i] {
				assert.Equal(t, []domain.TokenRef(rec.Triples[i][j]), []domain.TokenRef(loaded.Triples[i][j].Clone()),
					"row %d slot %d", i, j)
			}
		}
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		rec := newRecord(itemID)
		rec.Skipped = true
		rec.Triples[0] = domain.TripleRow{}

		require.NoError(t, store.Save(ctx, itemID, rec))

		loaded, err := store.Load(ctx, itemID)
		require.NoError(t, err)
		assert.True(t, loaded.Skipped)
		assert.True(t, loaded.Triples[0].Empty())
	})

	t.Run("Saved Record Is Isolated From Caller", func(t *testing.T) {
		rec := newRecord(itemID)
		require.NoError(t, store.Save(ctx, itemID, rec))

		rec.Triples[0][domain.SlotSubject] = nil
		loaded, err := store.Load(ctx, itemID)
		require.NoError(t, err)
		assert.Len(t, loaded.Triples[0][domain.SlotSubject], 2)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+itemID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, itemID, newRecord(itemID)))

		err := store.Delete(ctx, itemID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, itemID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Load after Delete should return ErrNotFound")

		ok, err := store.Exists(ctx, itemID)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, store.Delete(ctx, itemID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := itemID + "-1"
		id2 := itemID + "-2"
		require.NoError(t, store.Save(ctx, id1, newRecord(id1)))
		require.NoError(t, store.Save(ctx, id2, newRecord(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
