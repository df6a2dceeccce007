package triplet

import (
	"github.com/aretw0/triplet/pkg/domain"
)

// Focus is the active (row, slot) of a View.
type Focus struct {
	Row  int `json:"row"`
	Slot int `json:"slot"`
}

// SlotView is one cell of the triple grid.
type SlotView struct {
	Kind        string      `json:"kind"`
	Refs        domain.Slot `json:"refs"`
	Text        string      `json:"text"`
	Empty       bool        `json:"empty"`
	Highlighted bool        `json:"highlighted"`
}

// Label is the text shown for the slot: its tokens, or the kind name when empty.
func (s SlotView) Label() string {
	if s.Empty {
		return s.Kind
	}
	return s.Text
}

// RowView is one triple of the grid.
type RowView struct {
	Slots [domain.SlotsPerTriple]SlotView `json:"slots"`
}

// View is a read-only snapshot of the desk. It shares no memory with the desk.
type View struct {
	ItemID           string     `json:"item_id"`
	Index            int        `json:"index"`
	Total            int        `json:"total"`
	Summary          string     `json:"summary"`
	Turns            [][]string `json:"turns"`
	Rows             []RowView  `json:"rows"`
	Focus            *Focus     `json:"focus,omitempty"`
	AlreadyAnnotated bool       `json:"already_annotated"`
	HasPrev          bool       `json:"has_prev"`
	HasNext          bool       `json:"has_next"`
	Warning          string     `json:"warning,omitempty"`
}

func (d *Desk) view() View {
	item := d.focus.Item()
	i, n := d.session.Position()

	v := View{
		ItemID:           d.session.Item().ID,
		Index:            i,
		Total:            n,
		Summary:          d.session.Summary(),
		Turns:            make([][]string, len(item.Turns)),
		Rows:             make([]RowView, d.focus.NumTriples()),
		AlreadyAnnotated: d.annotated,
		HasPrev:          i > 0,
		HasNext:          i < n-1,
		Warning:          d.warning,
	}
	for t, turn := range item.Turns {
		v.Turns[t] = append([]string(nil), turn...)
	}
	for row := range v.Rows {
		for slot := 0; slot < domain.SlotsPerTriple; slot++ {
			refs := d.focus.Slot(row, slot)
			v.Rows[row].Slots[slot] = SlotView{
				Kind:        domain.SlotKind(slot).String(),
				Refs:        refs,
				Text:        refs.Text(item),
				Empty:       len(refs) == 0,
				Highlighted: d.focus.Highlighted(row, slot),
			}
		}
	}
	if f, ok := d.focus.Focus(); ok {
		v.Focus = &Focus{Row: f.Row, Slot: f.Slot}
	}
	return v
}

// Highlighted returns the focused cell, if any.
func (v View) Highlighted() (SlotView, bool) {
	if v.Focus == nil {
		return SlotView{}, false
	}
	return v.Rows[v.Focus.Row].Slots[v.Focus.Slot], true
}
