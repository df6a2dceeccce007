package ports

import (
	"context"

	"github.com/aretw0/triplet/pkg/domain"
)

// TokenProvider turns the raw text of an item into ordered turns of tokens.
// It must be deterministic for a given text.
type TokenProvider interface {
	Tokenize(ctx context.Context, item domain.Item) (domain.TokenizedItem, error)
}

// DatasetLoader reads the ordered items of a dataset.
type DatasetLoader interface {
	Load(ctx context.Context) ([]domain.Item, error)
}
