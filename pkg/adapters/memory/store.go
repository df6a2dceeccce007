package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
)

var _ ports.AnnotationStore = (*Store)(nil)

// Store implements ports.AnnotationStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.AnnotationRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.AnnotationRecord),
	}
}

// Exists reports whether a record is held for itemID.
func (s *Store) Exists(ctx context.Context, itemID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[itemID]
	return ok, nil
}

// Save keeps a deep copy so later edits by the caller are not visible.
func (s *Store) Save(ctx context.Context, itemID string, rec *domain.AnnotationRecord) error {
	copied := rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[itemID] = copied
	return nil
}

// Load returns a copy of the stored record.
func (s *Store) Load(ctx context.Context, itemID string) (*domain.AnnotationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.Clone(), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, itemID)
	return nil
}

// List returns the stored IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
