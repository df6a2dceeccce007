package triplet_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/internal/adapters/file"
	"github.com/aretw0/triplet/pkg/adapters/memory"
	"github.com/aretw0/triplet/pkg/adapters/tokenizer"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset() []domain.Item {
	return []domain.Item{
		{ID: "a", Text: "I like tea <eos> Me too"},
		{ID: "b", Text: "It rains <eos> Maybe"},
		{ID: "c", Text: "Cats sleep"},
	}
}

func newDesk(t *testing.T, store *memory.Store, opts ...triplet.Option) *triplet.Desk {
	t.Helper()
	desk, err := triplet.New(context.Background(), dataset(), store, tokenizer.New(), opts...)
	require.NoError(t, err)
	return desk
}

func TestNew_RejectsEmptyDataset(t *testing.T) {
	_, err := triplet.New(context.Background(), nil, memory.NewStore(), tokenizer.New())
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestNew_RejectsBadNumTriples(t *testing.T) {
	_, err := triplet.New(context.Background(), dataset(), memory.NewStore(), tokenizer.New(), triplet.WithNumTriples(0))
	assert.Error(t, err)
}

func TestDesk_InitialView(t *testing.T) {
	desk := newDesk(t, memory.NewStore(), triplet.WithNumTriples(2))
	v := desk.View()

	assert.Equal(t, "a", v.ItemID)
	assert.Equal(t, "Annotating a (1/3)", v.Summary)
	assert.Equal(t, [][]string{{"i", "like", "tea", domain.EndOfTurn}, {"me", "too", domain.EndOfTurn}}, v.Turns)
	require.Len(t, v.Rows, 2)
	assert.Nil(t, v.Focus)
	assert.False(t, v.AlreadyAnnotated)
	assert.False(t, v.HasPrev)
	assert.True(t, v.HasNext)

	cell := v.Rows[0].Slots[domain.SlotObject]
	assert.True(t, cell.Empty)
	assert.Equal(t, "object", cell.Label())
}

func TestDesk_TokenClickWithoutFocus(t *testing.T) {
	desk := newDesk(t, memory.NewStore())
	assert.ErrorIs(t, desk.OnTokenClick(0, 0), domain.ErrNoFocus)
}

func TestDesk_AnnotateAndNavigate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	desk := newDesk(t, store, triplet.WithNumTriples(2))

	require.NoError(t, desk.OnSlotClick(0, int(domain.SlotSubject)))
	require.NoError(t, desk.OnTokenClick(0, 0))
	assert.True(t, desk.OnDirectionKey(domain.DirectionRight))
	require.NoError(t, desk.OnTokenClick(0, 1))

	v := desk.View()
	cell, ok := v.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "predicate", cell.Kind)
	assert.Equal(t, "like", cell.Label())
	assert.Equal(t, "i", v.Rows[0].Slots[domain.SlotSubject].Text)

	moved, err := desk.OnNext(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "b", desk.View().ItemID)
	assert.Nil(t, desk.View().Focus, "fresh item starts without focus")

	moved, err = desk.OnSkip(ctx)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = desk.OnBack(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	v = desk.View()
	assert.Equal(t, "b", v.ItemID)
	assert.True(t, v.AlreadyAnnotated)

	moved, err = desk.OnBack(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	v = desk.View()
	assert.Equal(t, "a", v.ItemID)
	assert.Equal(t, "like", v.Rows[0].Slots[domain.SlotPredicate].Text, "stored record is rehydrated")
	require.NotNil(t, v.Focus)
	assert.Equal(t, triplet.Focus{Row: 0, Slot: int(domain.SlotPredicate)}, *v.Focus)

	skipped, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, skipped.Skipped)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestDesk_BackAtFirstKeepsGrid(t *testing.T) {
	desk := newDesk(t, memory.NewStore())
	require.NoError(t, desk.OnSlotClick(1, 1))
	require.NoError(t, desk.OnTokenClick(1, 0))

	moved, err := desk.OnBack(context.Background())
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, "me", desk.View().Rows[1].Slots[1].Text)
}

func TestDesk_ResumesAndRehydrates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first := newDesk(t, store, triplet.WithNumTriples(2))
	require.NoError(t, first.OnSlotClick(1, int(domain.SlotObject)))
	require.NoError(t, first.OnTokenClick(0, 2))
	_, err := first.OnNext(ctx)
	require.NoError(t, err)

	second := newDesk(t, store, triplet.WithNumTriples(2))
	assert.Equal(t, "b", second.View().ItemID)

	_, err = second.OnBack(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tea", second.View().Rows[1].Slots[domain.SlotObject].Text)
}

func TestDesk_NextAtLastItemSavesAndStays(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	desk := newDesk(t, store)

	for i := 0; i < 2; i++ {
		_, err := desk.OnNext(ctx)
		require.NoError(t, err)
	}
	moved, err := desk.OnNext(ctx)
	require.NoError(t, err)
	assert.False(t, moved)

	v := desk.View()
	assert.Equal(t, "c", v.ItemID)
	assert.True(t, v.AlreadyAnnotated)

	done, err := desk.Done(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestDesk_InvalidStoredRecordIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	bad := domain.NewRecord(domain.TokenizedItem{ItemID: "a", Turns: [][]string{{"x"}}}, 3)
	require.NoError(t, store.Save(ctx, "a", bad))
	require.NoError(t, store.Save(ctx, "b", bad))
	require.NoError(t, store.Save(ctx, "c", bad))

	desk := newDesk(t, store, triplet.WithNumTriples(2))
	v := desk.View()
	assert.Equal(t, "c", v.ItemID)
	assert.True(t, v.AlreadyAnnotated)
	assert.NotEmpty(t, v.Warning)
	assert.True(t, errors.Is(desk.OnTokenClick(0, 0), domain.ErrNoFocus))
}

// flakyTokenizer fails once for each id in failOnce.
type flakyTokenizer struct {
	*tokenizer.Provider
	failOnce map[string]bool
}

func (f *flakyTokenizer) Tokenize(ctx context.Context, item domain.Item) (domain.TokenizedItem, error) {
	if f.failOnce[item.ID] {
		delete(f.failOnce, item.ID)
		return domain.TokenizedItem{}, errors.New("segmenter unavailable")
	}
	return f.Provider.Tokenize(ctx, item)
}

func TestDesk_TokenizeFailureKeepsCurrentItem(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tokens := &flakyTokenizer{Provider: tokenizer.New(), failOnce: map[string]bool{"b": true}}
	desk, err := triplet.New(ctx, dataset(), store, tokens)
	require.NoError(t, err)

	require.NoError(t, desk.OnSlotClick(0, 0))
	require.NoError(t, desk.OnTokenClick(0, 2))

	moved, err := desk.OnNext(ctx)
	require.Error(t, err)
	assert.False(t, moved)

	v := desk.View()
	assert.Equal(t, "a", v.ItemID)
	assert.Equal(t, "tea", v.Rows[0].Slots[0].Text)
	assert.True(t, v.AlreadyAnnotated)
	assert.NotEmpty(t, v.Warning)

	moved, err = desk.OnNext(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	v = desk.View()
	assert.Equal(t, "b", v.ItemID)
	assert.Empty(t, v.Warning)

	ok, err := store.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok, "b was never annotated")

	rec, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.ID)
	assert.Equal(t, [][]string{{"i", "like", "tea", domain.EndOfTurn}, {"me", "too", domain.EndOfTurn}}, rec.Tokens)
}

func TestDesk_MisshapenStoredRowIsIgnored(t *testing.T) {
	dir := t.TempDir()
	data := `{"id": "a", "tokens": [["i", "like", "tea", "[unk]"], ["me", "too", "[unk]"]], "annotations": [[[[0, 0]], [], [], []]], "skipped": false}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "annotated_a.json"), []byte(data), 0o644))

	desk, err := triplet.New(context.Background(), dataset()[:1], file.New(dir), tokenizer.New())
	require.NoError(t, err)

	v := desk.View()
	assert.Equal(t, "a", v.ItemID)
	assert.True(t, v.AlreadyAnnotated)
	assert.Contains(t, v.Warning, "triple row has 4 slots")
	assert.True(t, v.Rows[0].Slots[domain.SlotSubject].Empty)
}

func TestDesk_ViewIsSnapshot(t *testing.T) {
	desk := newDesk(t, memory.NewStore())
	require.NoError(t, desk.OnSlotClick(0, 0))
	require.NoError(t, desk.OnTokenClick(0, 0))

	v := desk.View()
	v.Turns[0][0] = "mutated"
	v.Rows[0].Slots[0].Refs[0] = domain.TokenRef{Turn: 1, Token: 1}

	again := desk.View()
	assert.Equal(t, "i", again.Turns[0][0])
	assert.Equal(t, domain.Slot{{Turn: 0, Token: 0}}, again.Rows[0].Slots[0].Refs)
}

func TestDesk_HooksObserveSaves(t *testing.T) {
	var saved []string
	hooks := domain.LifecycleHooks{
		OnRecordSave: func(_ context.Context, e *domain.RecordEvent) {
			saved = append(saved, e.ItemID)
		},
	}
	desk := newDesk(t, memory.NewStore(), triplet.WithLifecycleHooks(hooks))
	_, err := desk.OnSkip(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, saved)
}
