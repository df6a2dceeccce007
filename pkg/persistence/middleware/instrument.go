package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
)

// Observer receives the outcome of every store call.
type Observer func(op string, d time.Duration, err error)

type instrumentMiddleware struct {
	next     ports.AnnotationStore
	logger   *slog.Logger
	observer Observer
}

// NewInstrumentMiddleware logs store calls at debug level and reports them to
// observer. Either may be nil.
func NewInstrumentMiddleware(logger *slog.Logger, observer Observer) Middleware {
	return func(next ports.AnnotationStore) ports.AnnotationStore {
		return &instrumentMiddleware{next: next, logger: logger, observer: observer}
	}
}

func (m *instrumentMiddleware) done(ctx context.Context, op, itemID string, start time.Time, err error) {
	d := time.Since(start)
	if m.observer != nil {
		m.observer(op, d, err)
	}
	if m.logger == nil {
		return
	}
	switch {
	case err == nil, errors.Is(err, domain.ErrNotFound):
		m.logger.DebugContext(ctx, "Store Call", "op", op, "item_id", itemID, "duration", d, "found", err == nil)
	default:
		m.logger.WarnContext(ctx, "Store Call Failed", "op", op, "item_id", itemID, "duration", d, "err", err)
	}
}

func (m *instrumentMiddleware) Exists(ctx context.Context, itemID string) (bool, error) {
	start := time.Now()
	ok, err := m.next.Exists(ctx, itemID)
	m.done(ctx, "exists", itemID, start, err)
	return ok, err
}

func (m *instrumentMiddleware) Save(ctx context.Context, itemID string, rec *domain.AnnotationRecord) error {
	start := time.Now()
	err := m.next.Save(ctx, itemID, rec)
	m.done(ctx, "save", itemID, start, err)
	return err
}

func (m *instrumentMiddleware) Load(ctx context.Context, itemID string) (*domain.AnnotationRecord, error) {
	start := time.Now()
	rec, err := m.next.Load(ctx, itemID)
	m.done(ctx, "load", itemID, start, err)
	return rec, err
}

func (m *instrumentMiddleware) Delete(ctx context.Context, itemID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, itemID)
	m.done(ctx, "delete", itemID, start, err)
	return err
}

func (m *instrumentMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.done(ctx, "list", "", start, err)
	return ids, err
}
