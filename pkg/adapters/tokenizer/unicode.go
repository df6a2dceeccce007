package tokenizer

import (
	"context"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// UnicodeSegmenter splits turns on Unicode word boundaries (UAX #29).
// Whitespace segments are dropped; punctuation becomes its own token.
type UnicodeSegmenter struct{}

func (UnicodeSegmenter) Segment(_ context.Context, turns []string) ([][]string, error) {
	out := make([][]string, len(turns))
	for i, turn := range turns {
		out[i] = Words(turn)
	}
	return out, nil
}

// Words returns the non-blank word segments of s.
func Words(s string) []string {
	words := []string{}
	state := -1
	var word string
	for len(s) > 0 {
		word, s, state = uniseg.FirstWordInString(s, state)
		if strings.TrimFunc(word, unicode.IsSpace) == "" {
			continue
		}
		words = append(words, word)
	}
	return words
}
