package ports

import (
	"context"

	"github.com/aretw0/triplet/pkg/domain"
)

// AnnotationStore persists one annotation record per item ID.
// Implementations must publish a record all-or-nothing: a reader never
// observes a partially written record.
type AnnotationStore interface {
	// Exists reports whether a record is stored for itemID.
	Exists(ctx context.Context, itemID string) (bool, error)

	// Save stores rec under itemID, overwriting any previous record.
	Save(ctx context.Context, itemID string, rec *domain.AnnotationRecord) error

	// Load retrieves the record stored for itemID.
	// Returns domain.ErrNotFound if no record exists.
	Load(ctx context.Context, itemID string) (*domain.AnnotationRecord, error)

	// Delete removes the record for itemID. Deleting a missing record is not an error.
	Delete(ctx context.Context, itemID string) error

	// List returns the IDs of all stored records.
	List(ctx context.Context) ([]string, error)
}
