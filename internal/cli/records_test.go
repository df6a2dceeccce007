package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/triplet/pkg/adapters/memory"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store *memory.Store, id string, skipped bool) {
	t.Helper()
	rec := &domain.AnnotationRecord{
		ID:      id,
		Tokens:  [][]string{{"cats", "sleep", domain.EndOfTurn}},
		Triples: []domain.TripleRow{{domain.Slot{{Turn: 0, Token: 0}}, domain.Slot{{Turn: 0, Token: 1}}}},
		Skipped: skipped,
	}
	require.NoError(t, store.Save(context.Background(), id, rec))
}

func TestCollectStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	items := []domain.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	seed(t, store, "a", false)
	seed(t, store, "c", true)
	seed(t, store, "zz", false)

	st, err := CollectStatus(ctx, store, items)
	require.NoError(t, err)
	assert.Equal(t, Status{Total: 4, Annotated: 1, Skipped: 1}, st)
	assert.Equal(t, 2, st.Remaining())

	var out bytes.Buffer
	PrintStatus(&out, st)
	assert.Contains(t, out.String(), "50%")
	assert.Contains(t, out.String(), "remaining: 2\n")
}

func TestPrintStatus_EmptyDataset(t *testing.T) {
	var out bytes.Buffer
	PrintStatus(&out, Status{})
	assert.Equal(t, "items:     0\nannotated: 0\nskipped:   0\nremaining: 0\n", out.String())
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "c", false)

	var out bytes.Buffer
	require.NoError(t, Inspect(ctx, store, "c", &out, true))
	assert.Contains(t, out.String(), "# c")
	assert.Contains(t, out.String(), "| cats | sleep |")

	err := Inspect(ctx, store, "missing", &out, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "a", false)

	var out bytes.Buffer
	require.NoError(t, Reset(ctx, store, []string{"a", "never"}, &out))
	assert.Equal(t, "Removed record 'a'\nRemoved record 'never'\n", out.String())

	ok, err := store.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
