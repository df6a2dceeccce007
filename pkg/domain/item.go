package domain

// Item is one entry of the dataset. Identity is ID.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TokenizedItem is the turn/token view of an Item.
// Every turn ends with EndOfTurn.
type TokenizedItem struct {
	ItemID string     `json:"item_id"`
	Turns  [][]string `json:"turns"`
}

// Contains reports whether ref addresses an existing token.
func (t TokenizedItem) Contains(ref TokenRef) bool {
	if ref.Turn < 0 || ref.Turn >= len(t.Turns) {
		return false
	}
	return ref.Token >= 0 && ref.Token < len(t.Turns[ref.Turn])
}

// Token returns the text at ref, or "" when ref is out of range.
func (t TokenizedItem) Token(ref TokenRef) string {
	if !t.Contains(ref) {
		return ""
	}
	return t.Turns[ref.Turn][ref.Token]
}

// Len returns the total number of tokens across all turns.
func (t TokenizedItem) Len() int {
	n := 0
	for _, turn := range t.Turns {
		n += len(turn)
	}
	return n
}
