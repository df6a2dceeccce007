package runtime

import (
	"fmt"

	"github.com/aretw0/triplet/pkg/domain"
)

// Focus is a (row, slot) coordinate in the triple grid.
type Focus struct {
	Row  int `json:"row"`
	Slot int `json:"slot"`
}

// FocusController is the triple-argument state machine for one item.
//
// Focus starts as none after Bind. SetFocus (and MoveFocus, which goes through
// it) clears the target slot: re-entering a slot always starts a fresh span.
type FocusController struct {
	numTriples int
	item       domain.TokenizedItem
	rows       []domain.TripleRow
	focus      Focus
	focused    bool
}

// NewFocusController creates a controller with numTriples rows.
// Values below 1 fall back to domain.DefaultNumTriples.
func NewFocusController(numTriples int) *FocusController {
	if numTriples < 1 {
		numTriples = domain.DefaultNumTriples
	}
	f := &FocusController{numTriples: numTriples}
	f.Bind(domain.TokenizedItem{})
	return f
}

// NumTriples returns the fixed number of triple rows.
func (f *FocusController) NumTriples() int { return f.numTriples }

// Item returns the bound item.
func (f *FocusController) Item() domain.TokenizedItem { return f.item }

// Bind attaches a freshly tokenized item: every slot is emptied and focus is none.
func (f *FocusController) Bind(item domain.TokenizedItem) {
	f.item = item
	f.rows = make([]domain.TripleRow, f.numTriples)
	for i := range f.rows {
		for j := range f.rows[i] {
			f.rows[i][j] = domain.Slot{}
		}
	}
	f.focused = false
	f.focus = Focus{}
}

// Valid reports whether (row, slot) lies inside the grid.
func (f *FocusController) Valid(row, slot int) bool {
	return row >= 0 && row < f.numTriples && slot >= 0 && slot < domain.SlotsPerTriple
}

// Focus returns the active slot; ok is false when nothing is focused.
func (f *FocusController) Focus() (focus Focus, ok bool) {
	return f.focus, f.focused
}

// Highlighted reports whether (row, slot) is the focused slot. Exactly one
// slot is highlighted while focus is set, none otherwise.
func (f *FocusController) Highlighted(row, slot int) bool {
	return f.focused && f.focus.Row == row && f.focus.Slot == slot
}

// Slot returns a copy of the token span at (row, slot).
func (f *FocusController) Slot(row, slot int) domain.Slot {
	if !f.Valid(row, slot) {
		return domain.Slot{}
	}
	return f.rows[row][slot].Clone()
}

// SetFocus focuses (row, slot) and clears its contents.
func (f *FocusController) SetFocus(row, slot int) error {
	if !f.Valid(row, slot) {
		return fmt.Errorf("%w: (%d, %d)", domain.ErrInvalidSlot, row, slot)
	}
	f.focus = Focus{Row: row, Slot: slot}
	f.focused = true
	f.rows[row][slot] = domain.Slot{}
	return nil
}

// Assign appends the token (turn, token) to the focused slot.
// Spans accumulate in call order; duplicates are kept.
func (f *FocusController) Assign(turn, token int) error {
	if !f.focused {
		return domain.ErrNoFocus
	}
	ref := domain.TokenRef{Turn: turn, Token: token}
	if !f.item.Contains(ref) {
		return fmt.Errorf("%w: [%d, %d]", domain.ErrTokenOutOfRange, turn, token)
	}
	f.rows[f.focus.Row][f.focus.Slot] = append(f.rows[f.focus.Row][f.focus.Slot], ref)
	return nil
}

// MoveFocus shifts focus one slot left or right, wrapping across rows.
// Moving off either end of the grid, or moving with no focus, is a no-op and
// returns false. A successful move clears the target slot like SetFocus.
func (f *FocusController) MoveFocus(dir domain.Direction) bool {
	if !f.focused {
		return false
	}
	row, slot := f.focus.Row, f.focus.Slot
	switch dir {
	case domain.DirectionLeft:
		slot--
	case domain.DirectionRight:
		slot++
	default:
		return false
	}

	if slot < 0 {
		row--
		slot = domain.SlotsPerTriple - 1
	} else if slot >= domain.SlotsPerTriple {
		row++
		slot = 0
	}

	if !f.Valid(row, slot) {
		return false
	}
	_ = f.SetFocus(row, slot)
	return true
}
