package domain

const (
	// DefaultNumTriples is the number of triple rows offered per item.
	DefaultNumTriples = 8

	// SlotsPerTriple is fixed: subject, predicate, object, polarity, certainty.
	SlotsPerTriple = 5

	// DefaultSeparator joins the turns of a dialogue inside Item.Text.
	DefaultSeparator = "<eos>"

	// EndOfTurn is appended to every tokenized turn.
	EndOfTurn = "[unk]"
)

// SlotKind indexes an argument inside a TripleRow.
type SlotKind int

const (
	SlotSubject SlotKind = iota
	SlotPredicate
	SlotObject
	SlotPolarity
	SlotCertainty
)

var slotNames = [SlotsPerTriple]string{"subject", "predicate", "object", "polarity", "certainty"}

// String returns the argument name ("subject", "predicate", ...).
func (k SlotKind) String() string {
	if k < 0 || int(k) >= SlotsPerTriple {
		return "unknown"
	}
	return slotNames[k]
}

// Direction is a focus movement along the flattened (row, slot) sequence.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)
