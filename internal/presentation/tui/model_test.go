package tui

import (
	"context"
	"testing"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/adapters/memory"
	"github.com/aretw0/triplet/pkg/adapters/tokenizer"
	"github.com/aretw0/triplet/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, store *memory.Store) *Model {
	t.Helper()
	ctx := context.Background()
	items := []domain.Item{
		{ID: "a", Text: "Ann hates rain <eos> Sure"},
		{ID: "b", Text: "Rain helps"},
	}
	desk, err := triplet.New(ctx, items, store, tokenizer.New(), triplet.WithNumTriples(2))
	require.NoError(t, err)
	return New(ctx, desk, DefaultKeys)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys and runs any returned command synchronously.
func press(m *Model, keys ...string) {
	for _, k := range keys {
		_, cmd := m.Update(key(k))
		if cmd == nil {
			continue
		}
		if msg := cmd(); msg != nil {
			if _, ok := msg.(navigatedMsg); ok {
				m.Update(msg)
			}
		}
	}
}

func TestModel_AssignNeedsFocus(t *testing.T) {
	m := newModel(t, memory.NewStore())
	press(m, "enter")
	assert.Contains(t, m.status, "select a slot first")
}

func TestModel_AnnotateWithKeys(t *testing.T) {
	m := newModel(t, memory.NewStore())

	press(m, "1", "enter")
	press(m, "s", "right", "enter")
	press(m, "s", "right", "enter")

	v := m.view
	assert.Equal(t, "ann", v.Rows[0].Slots[domain.SlotSubject].Text)
	assert.Equal(t, "hates", v.Rows[0].Slots[domain.SlotPredicate].Text)
	assert.Equal(t, "rain", v.Rows[0].Slots[domain.SlotObject].Text)

	press(m, "j")
	require.NotNil(t, m.view.Focus)
	assert.Equal(t, 1, m.view.Focus.Row)
	assert.Equal(t, int(domain.SlotObject), m.view.Focus.Slot)

	press(m, "down", "enter")
	assert.Equal(t, "sure", m.view.Rows[1].Slots[domain.SlotObject].Text)
}

func TestModel_FocusMoveAtEdge(t *testing.T) {
	m := newModel(t, memory.NewStore())
	press(m, "1", "a")
	assert.Contains(t, m.status, "no slot left")
}

func TestModel_NavigationSavesAndReloads(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := newModel(t, store)

	press(m, "3", "enter", "n")
	assert.Equal(t, "b", m.view.ItemID)
	assert.Equal(t, 0, m.turn)

	press(m, "n")
	assert.Contains(t, m.status, "last item")

	press(m, "b")
	assert.Equal(t, "a", m.view.ItemID)
	assert.True(t, m.view.AlreadyAnnotated)
	assert.Equal(t, "ann", m.view.Rows[0].Slots[domain.SlotObject].Text)

	press(m, "b")
	assert.Contains(t, m.status, "first item")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestModel_SkipMarksRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := newModel(t, store)

	press(m, "x")
	rec, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, rec.Skipped)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, memory.NewStore())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewRendersSummaryAndPlaceholders(t *testing.T) {
	m := newModel(t, memory.NewStore())
	out := m.View()
	assert.Contains(t, out, "Annotating a (1/2)")
	assert.Contains(t, out, "certainty")
	assert.Contains(t, out, "hates")
}
