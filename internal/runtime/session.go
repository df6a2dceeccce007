package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/triplet/internal/logging"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
)

// Session is the annotation session engine. It composes a Cursor with an
// AnnotationStore and a TokenProvider.
type Session struct {
	cursor *Cursor
	store  ports.AnnotationStore
	tokens ports.TokenProvider
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) SessionOption {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// NewSession opens a session over items and positions it at the first item
// without a stored record. When every item is already annotated the session
// stops at the last item; use Done to tell the two cases apart.
func NewSession(ctx context.Context, items []domain.Item, store ports.AnnotationStore, tokens ports.TokenProvider, opts ...SessionOption) (*Session, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyDataset
	}
	if store == nil || tokens == nil {
		return nil, errors.New("session requires a store and a token provider")
	}

	s := &Session{
		cursor: NewCursor(items),
		store:  store,
		tokens: tokens,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.resume(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// resume scans forward from 0 while the current item already has a record.
func (s *Session) resume(ctx context.Context) error {
	for {
		item := s.Item()
		annotated, err := s.store.Exists(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("failed to resume session at %s: %w", item.ID, err)
		}
		if !annotated || !s.cursor.HasNext() {
			break
		}
		s.cursor.Next()
	}

	s.logger.Info("Session Resumed", "item_id", s.Item().ID, "index", s.cursor.Index(), "total", s.cursor.Len())
	s.emitItemEnter(ctx, "resume", s.cursor.Index() > 0)
	return nil
}

// Item returns the raw current item.
func (s *Session) Item() domain.Item {
	item, _ := s.cursor.Current() // non-empty by construction
	return item
}

// Position returns the 0-based index of the current item and the dataset size.
func (s *Session) Position() (int, int) {
	return s.cursor.Index(), s.cursor.Len()
}

// Summary describes the position for window titles and status lines.
func (s *Session) Summary() string {
	i, n := s.Position()
	return fmt.Sprintf("Annotating %s (%d/%d)", s.Item().ID, i+1, n)
}

// Current tokenizes the current item. The result is never cached.
func (s *Session) Current(ctx context.Context) (domain.TokenizedItem, error) {
	return s.tokenize(ctx, s.Item())
}

func (s *Session) tokenize(ctx context.Context, item domain.Item) (domain.TokenizedItem, error) {
	start := time.Now()
	tokenized, err := s.tokens.Tokenize(ctx, item)
	s.emitTokenize(ctx, item.ID, len(tokenized.Turns), time.Since(start), err)
	if err != nil {
		return domain.TokenizedItem{}, fmt.Errorf("failed to tokenize %s: %w", item.ID, err)
	}
	tokenized.ItemID = item.ID
	return tokenized, nil
}

// AlreadyAnnotated reports whether the current item has a stored record.
func (s *Session) AlreadyAnnotated(ctx context.Context) (bool, error) {
	return s.store.Exists(ctx, s.Item().ID)
}

// Load returns the stored record of the current item.
// Returns domain.ErrNotFound if AlreadyAnnotated is false.
func (s *Session) Load(ctx context.Context) (*domain.AnnotationRecord, error) {
	id := s.Item().ID
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load record %s: %w", id, err)
	}
	return rec, nil
}

// Next stores rec for the current item, then advances. At the last item the
// record is still stored and the position does not change (moved == false).
// rec must belong to the current item. The target item is tokenized before
// the cursor moves, so a tokenizer failure leaves the position unchanged.
func (s *Session) Next(ctx context.Context, rec *domain.AnnotationRecord) (domain.TokenizedItem, bool, error) {
	if rec == nil {
		return domain.TokenizedItem{}, false, errors.New("next requires a record")
	}

	id := s.Item().ID
	if rec.ID != id {
		return domain.TokenizedItem{}, false, fmt.Errorf("%w: record for %q cannot be stored under %q", domain.ErrInvalidRecord, rec.ID, id)
	}
	if err := s.store.Save(ctx, id, rec); err != nil {
		return domain.TokenizedItem{}, false, fmt.Errorf("failed to save record %s: %w", id, err)
	}
	s.logger.Debug("Record Saved", "item_id", id, "skipped", rec.Skipped, "triples", rec.Annotated())
	s.emitRecordSave(ctx, rec)

	return s.step(ctx, "next", 1)
}

// Prev moves back one item without storing anything.
func (s *Session) Prev(ctx context.Context) (domain.TokenizedItem, bool, error) {
	return s.step(ctx, "prev", -1)
}

// step tokenizes the item at Index()+delta and only then moves the cursor.
// Out of range targets do not move; the current item is tokenized instead.
func (s *Session) step(ctx context.Context, direction string, delta int) (domain.TokenizedItem, bool, error) {
	target := s.cursor.Index() + delta
	if target < 0 || target >= s.cursor.Len() {
		s.emitItemEnter(ctx, direction, false)
		tokenized, err := s.Current(ctx)
		return tokenized, false, err
	}

	tokenized, err := s.tokenize(ctx, s.cursor.items[target])
	if err != nil {
		s.logger.Warn("Navigation Aborted", "direction", direction, "item_id", s.Item().ID, "err", err)
		return domain.TokenizedItem{}, false, err
	}
	if delta > 0 {
		s.cursor.Next()
	} else {
		s.cursor.Prev()
	}
	s.emitItemEnter(ctx, direction, true)
	return tokenized, true, nil
}

// Done reports whether every item of the dataset has a stored record.
func (s *Session) Done(ctx context.Context) (bool, error) {
	for _, item := range s.cursor.items {
		ok, err := s.store.Exists(ctx, item.ID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *Session) emitItemEnter(ctx context.Context, direction string, moved bool) {
	if s.hooks.OnItemEnter == nil {
		return
	}
	s.hooks.OnItemEnter(ctx, &domain.ItemEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventItemEnter},
		ItemID:    s.Item().ID,
		Index:     s.cursor.Index(),
		Total:     s.cursor.Len(),
		Direction: direction,
		Moved:     moved,
	})
}

func (s *Session) emitRecordSave(ctx context.Context, rec *domain.AnnotationRecord) {
	if s.hooks.OnRecordSave == nil {
		return
	}
	s.hooks.OnRecordSave(ctx, &domain.RecordEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRecordSave},
		ItemID:    rec.ID,
		Skipped:   rec.Skipped,
		Triples:   rec.Annotated(),
	})
}

func (s *Session) emitTokenize(ctx context.Context, id string, turns int, d time.Duration, err error) {
	if err != nil {
		s.logger.Warn("Tokenize Failed", "item_id", id, "err", err)
	}
	if s.hooks.OnTokenize == nil {
		return
	}
	s.hooks.OnTokenize(ctx, &domain.TokenizeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTokenize},
		ItemID:    id,
		Turns:     turns,
		Duration:  d,
		Err:       err,
	})
}
