package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// RecordMarkdown formats a stored record as markdown: the turns, then a table
// with one line per non-empty triple.
func RecordMarkdown(rec *domain.AnnotationRecord) string {
	item := rec.Item()
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.ID)
	if rec.Skipped {
		b.WriteString("_skipped_\n\n")
	}
	for i, turn := range rec.Tokens {
		words := make([]string, 0, len(turn))
		for _, tok := range turn {
			if tok != domain.EndOfTurn {
				words = append(words, tok)
			}
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.Join(words, " "))
	}
	b.WriteString("\n")

	if rec.Annotated() == 0 {
		b.WriteString("No triples.\n")
		return b.String()
	}

	b.WriteString("| # |")
	for k := 0; k < domain.SlotsPerTriple; k++ {
		fmt.Fprintf(&b, " %s |", domain.SlotKind(k))
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", domain.SlotsPerTriple))
	b.WriteString("\n")
	for r, row := range rec.Triples {
		if row.Empty() {
			continue
		}
		fmt.Fprintf(&b, "| %d |", r+1)
		for _, slot := range row {
			text := slot.Text(item)
			if text == "" {
				text = "-"
			}
			fmt.Fprintf(&b, " %s |", strings.ReplaceAll(text, "|", `\|`))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// NewRenderer returns a markdown renderer for terminals. Plain returns the
// markdown unchanged, for pipes.
func NewRenderer(plain bool, width int) (func(string) (string, error), error) {
	if plain {
		return func(md string) (string, error) { return md, nil }, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
