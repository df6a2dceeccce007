package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
)

const (
	filePrefix = "annotated_"
	fileExt    = ".json"
)

var _ ports.AnnotationStore = (*Store)(nil)

// Store implements ports.AnnotationStore using the local filesystem.
// Each record lives in its own file, <BasePath>/annotated_<id>.json.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to "annotations".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "annotations"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(itemID string) (string, error) {
	if itemID == "" {
		return "", fmt.Errorf("item id cannot be empty")
	}
	if strings.ContainsAny(itemID, `/\`) || itemID == "." || itemID == ".." {
		return "", fmt.Errorf("item id %q is not a valid file name", itemID)
	}
	return filepath.Join(s.BasePath, filePrefix+itemID+fileExt), nil
}

// Exists reports whether the record file is present.
func (s *Store) Exists(ctx context.Context, itemID string) (bool, error) {
	p, err := s.path(itemID)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat annotation file: %w", err)
}

// Save persists the record to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, itemID string, rec *domain.AnnotationRecord) error {
	destPath, err := s.path(itemID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure annotation directory: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// Same directory as the destination, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+itemID+"-*"+fileExt)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := replaceFile(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to publish annotation file: %w", err)
	}

	syncDir(s.BasePath)
	return nil
}

// Load reads the record file.
func (s *Store) Load(ctx context.Context, itemID string) (*domain.AnnotationRecord, error) {
	p, err := s.path(itemID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read annotation file: %w", err)
	}

	var rec domain.AnnotationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal annotation %s: %w", itemID, err)
	}
	if rec.ID == "" {
		rec.ID = itemID
	}
	return &rec, nil
}

// Delete removes the record file.
func (s *Store) Delete(ctx context.Context, itemID string) error {
	p, err := s.path(itemID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete annotation file: %w", err)
	}
	return nil
}

// List returns the IDs of all record files. Leftover temp files are ignored.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || filepath.Ext(name) != fileExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}
