package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS annotations (
	item_id    TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	skipped    BOOLEAN NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_annotations_skipped ON annotations(skipped);
`

var _ ports.AnnotationStore = (*Store)(nil)

// Store implements ports.AnnotationStore on a single SQLite database file.
// Every Save is one upsert statement, so a record is either fully written or absent.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Exists reports whether a row is stored for itemID.
func (s *Store) Exists(ctx context.Context, itemID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM annotations WHERE item_id = ?`, itemID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query annotation: %w", err)
	}
	return true, nil
}

// Save upserts the record.
func (s *Store) Save(ctx context.Context, itemID string, rec *domain.AnnotationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO annotations (item_id, record, skipped, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			record = excluded.record,
			skipped = excluded.skipped,
			updated_at = excluded.updated_at
	`, itemID, string(data), rec.Skipped, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save annotation: %w", err)
	}
	return nil
}

// Load reads and decodes the stored record.
func (s *Store) Load(ctx context.Context, itemID string) (*domain.AnnotationRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM annotations WHERE item_id = ?`, itemID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load annotation: %w", err)
	}

	var rec domain.AnnotationRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal annotation %s: %w", itemID, err)
	}
	return &rec, nil
}

// Delete removes the row.
func (s *Store) Delete(ctx context.Context, itemID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	return nil
}

// List returns all stored IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id FROM annotations ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan annotation id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountSkipped returns how many stored records were skipped.
func (s *Store) CountSkipped(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM annotations WHERE skipped = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count skipped annotations: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
