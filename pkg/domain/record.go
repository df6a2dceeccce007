package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TokenRef addresses one token of a TokenizedItem.
// It is encoded as the JSON array [turn, token].
type TokenRef struct {
	Turn  int
	Token int
}

func (r TokenRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Turn, r.Token})
}

func (r *TokenRef) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("token ref: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("token ref: expected [turn, token], got %d values", len(pair))
	}
	r.Turn, r.Token = pair[0], pair[1]
	return nil
}

// Slot is the ordered span of tokens assigned to one triple argument.
type Slot []TokenRef

// MarshalJSON encodes an empty slot as [] instead of null.
func (s Slot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TokenRef(s))
}

// Clone returns an independent copy of the slot (never nil).
func (s Slot) Clone() Slot {
	out := make(Slot, len(s))
	copy(out, s)
	return out
}

// Text joins the slot tokens with single spaces.
func (s Slot) Text(item TokenizedItem) string {
	words := make([]string, 0, len(s))
	for _, ref := range s {
		words = append(words, item.Token(ref))
	}
	return strings.Join(words, " ")
}

// TripleRow holds the five argument slots of one triple.
type TripleRow [SlotsPerTriple]Slot

// UnmarshalJSON rejects rows that do not hold exactly SlotsPerTriple slots.
func (r *TripleRow) UnmarshalJSON(data []byte) error {
	var slots []Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return fmt.Errorf("%w: triple row: %v", ErrInvalidRecord, err)
	}
	if len(slots) != SlotsPerTriple {
		return fmt.Errorf("%w: triple row has %d slots, want %d", ErrInvalidRecord, len(slots), SlotsPerTriple)
	}
	copy(r[:], slots)
	return nil
}

// Empty reports whether no token is assigned to any slot of the row.
func (r TripleRow) Empty() bool {
	for _, s := range r {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

// AnnotationRecord is the persisted annotation of one item.
type AnnotationRecord struct {
	ID      string      `json:"id,omitempty"`
	Tokens  [][]string  `json:"tokens"`
	Triples []TripleRow `json:"annotations"`
	Skipped bool        `json:"skipped"`
}

// NewRecord creates an empty record with numTriples rows of empty slots.
func NewRecord(item TokenizedItem, numTriples int) *AnnotationRecord {
	rec := &AnnotationRecord{
		ID:      item.ItemID,
		Tokens:  item.Turns,
		Triples: make([]TripleRow, numTriples),
	}
	for i := range rec.Triples {
		for j := range rec.Triples[i] {
			rec.Triples[i][j] = Slot{}
		}
	}
	return rec
}

// Item returns the tokenized view stored in the record.
func (r *AnnotationRecord) Item() TokenizedItem {
	return TokenizedItem{ItemID: r.ID, Turns: r.Tokens}
}

// Clone returns a deep copy of the record.
func (r *AnnotationRecord) Clone() *AnnotationRecord {
	out := &AnnotationRecord{
		ID:      r.ID,
		Skipped: r.Skipped,
		Tokens:  make([][]string, len(r.Tokens)),
		Triples: make([]TripleRow, len(r.Triples)),
	}
	for i, turn := range r.Tokens {
		out.Tokens[i] = append([]string(nil), turn...)
	}
	for i, row := range r.Triples {
		for j, slot := range row {
			out.Triples[i][j] = slot.Clone()
		}
	}
	return out
}

// Annotated counts the rows holding at least one assigned token.
func (r *AnnotationRecord) Annotated() int {
	n := 0
	for _, row := range r.Triples {
		if !row.Empty() {
			n++
		}
	}
	return n
}

// Validate checks that the record has exactly numTriples rows and that every
// TokenRef addresses a token of the record's own tokens.
func (r *AnnotationRecord) Validate(numTriples int) error {
	if len(r.Triples) != numTriples {
		return fmt.Errorf("%w: %d triple rows, want %d", ErrInvalidRecord, len(r.Triples), numTriples)
	}
	item := r.Item()
	for i, row := range r.Triples {
		for j, slot := range row {
			for _, ref := range slot {
				if !item.Contains(ref) {
					return fmt.Errorf("%w: row %d %s references [%d,%d]",
						ErrInvalidRecord, i, SlotKind(j), ref.Turn, ref.Token)
				}
			}
		}
	}
	return nil
}
