package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "triplet:annotation:"

var _ ports.AnnotationStore = (*Store)(nil)

// Store implements ports.AnnotationStore using Redis.
// Records are JSON strings under <prefix><id>; <prefix>index is a SET of IDs.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(itemID string) string {
	return s.prefix + itemID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Exists reports whether a record key is present.
func (s *Store) Exists(ctx context.Context, itemID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(itemID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check redis key: %w", err)
	}
	return n > 0, nil
}

// Save writes the record and its index entry in one MULTI/EXEC transaction.
func (s *Store) Save(ctx context.Context, itemID string, rec *domain.AnnotationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(itemID), data, 0)
	pipe.SAdd(ctx, s.indexKey(), itemID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the record from Redis.
func (s *Store) Load(ctx context.Context, itemID string) (*domain.AnnotationRecord, error) {
	val, err := s.client.Get(ctx, s.key(itemID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rec domain.AnnotationRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", itemID, err)
	}
	return &rec, nil
}

// Delete removes the record and its index entry.
func (s *Store) Delete(ctx context.Context, itemID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(itemID))
	pipe.SRem(ctx, s.indexKey(), itemID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the indexed IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
