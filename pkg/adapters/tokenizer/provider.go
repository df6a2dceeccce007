package tokenizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Segmenter splits already separated turns into tokens.
// It returns exactly one token list per input turn.
type Segmenter interface {
	Segment(ctx context.Context, turns []string) ([][]string, error)
}

var _ ports.TokenProvider = (*Provider)(nil)

// Provider implements ports.TokenProvider: it splits Item.Text on the turn
// separator, segments every turn and closes each one with domain.EndOfTurn.
type Provider struct {
	separator string
	segmenter Segmenter
	lowercase bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithSeparator sets the turn separator (default domain.DefaultSeparator).
func WithSeparator(sep string) Option {
	return func(p *Provider) {
		if sep != "" {
			p.separator = sep
		}
	}
}

// WithSegmenter replaces the default Unicode word segmenter.
func WithSegmenter(s Segmenter) Option {
	return func(p *Provider) {
		p.segmenter = s
	}
}

// WithLowercase toggles lowercasing of tokens (default on).
func WithLowercase(on bool) Option {
	return func(p *Provider) {
		p.lowercase = on
	}
}

// New creates a Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		separator: domain.DefaultSeparator,
		segmenter: UnicodeSegmenter{},
		lowercase: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tokenize turns the item text into a TokenizedItem.
func (p *Provider) Tokenize(ctx context.Context, item domain.Item) (domain.TokenizedItem, error) {
	raw := strings.Split(item.Text, p.separator)
	turns := make([]string, len(raw))
	for i, t := range raw {
		turns[i] = strings.TrimSpace(t)
	}

	segmented, err := p.segmenter.Segment(ctx, turns)
	if err != nil {
		return domain.TokenizedItem{}, fmt.Errorf("failed to tokenize item %s: %w", item.ID, err)
	}
	if len(segmented) != len(turns) {
		return domain.TokenizedItem{}, fmt.Errorf("failed to tokenize item %s: segmenter returned %d turns, want %d",
			item.ID, len(segmented), len(turns))
	}

	// Casers keep state between calls and are not shared across goroutines.
	lower := cases.Lower(language.Und)

	out := domain.TokenizedItem{
		ItemID: item.ID,
		Turns:  make([][]string, len(segmented)),
	}
	for i, tokens := range segmented {
		turn := make([]string, 0, len(tokens)+1)
		for _, tok := range tokens {
			if p.lowercase {
				tok = lower.String(tok)
			}
			turn = append(turn, tok)
		}
		out.Turns[i] = append(turn, domain.EndOfTurn)
	}
	return out, nil
}
