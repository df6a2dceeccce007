package triplet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/aretw0/triplet/internal/logging"
	"github.com/aretw0/triplet/internal/runtime"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
)

// Desk is the high-level entry point for presentation layers.
// It forwards UI events into the focus controller and the session engine and
// exposes the resulting state through View. All methods are safe to call
// from multiple goroutines; events are applied one at a time.
type Desk struct {
	mu         sync.Mutex
	session    *runtime.Session
	focus      *runtime.FocusController
	numTriples int
	annotated  bool
	warning    string
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Desk.
type Option func(*Desk)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Desk) {
		d.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Desk) {
		d.hooks = hooks
	}
}

// WithNumTriples sets the number of triple rows per item (default 8).
func WithNumTriples(n int) Option {
	return func(d *Desk) {
		d.numTriples = n
	}
}

// New opens a desk over items. The session resumes at the first item without
// a stored record; when that item is already annotated its record is loaded
// back into the grid.
func New(ctx context.Context, items []domain.Item, store ports.AnnotationStore, tokens ports.TokenProvider, opts ...Option) (*Desk, error) {
	d := &Desk{numTriples: domain.DefaultNumTriples}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.NewNop()
	}
	if d.numTriples < 1 {
		return nil, fmt.Errorf("num triples must be positive, got %d", d.numTriples)
	}

	session, err := runtime.NewSession(ctx, items, store, tokens,
		runtime.WithLogger(d.logger),
		runtime.WithLifecycleHooks(d.hooks),
	)
	if err != nil {
		return nil, err
	}
	d.session = session
	d.focus = runtime.NewFocusController(d.numTriples)

	item, err := session.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.enter(ctx, item); err != nil {
		return nil, err
	}
	return d, nil
}

// enter binds a freshly tokenized item and restores its stored record, if any.
// The stored record wins over the fresh tokens: its TokenRefs address them.
func (d *Desk) enter(ctx context.Context, item domain.TokenizedItem) error {
	d.focus.Bind(item)
	d.warning = ""

	annotated, err := d.session.AlreadyAnnotated(ctx)
	if err != nil {
		return fmt.Errorf("failed to check record %s: %w", item.ItemID, err)
	}
	d.annotated = annotated
	if !annotated {
		return nil
	}

	rec, err := d.session.Load(ctx)
	if err == nil {
		if !reflect.DeepEqual(rec.Tokens, item.Turns) {
			d.logger.Warn("Stored Tokens Differ", "item_id", item.ItemID)
		}
		err = d.focus.Rehydrate(rec)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidRecord) {
			return err
		}
		// Unusable record: start over on fresh tokens. Next overwrites it.
		d.logger.Warn("Stored Record Ignored", "item_id", item.ItemID, "err", err)
		d.focus.Bind(item)
		d.warning = err.Error()
	}
	return nil
}

// OnTokenClick assigns the token (turn, token) to the focused slot.
func (d *Desk) OnTokenClick(turn, token int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus.Assign(turn, token)
}

// OnSlotClick focuses (row, slot), clearing its contents.
func (d *Desk) OnSlotClick(row, slot int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus.SetFocus(row, slot)
}

// OnDirectionKey moves focus one slot left or right.
func (d *Desk) OnDirectionKey(dir domain.Direction) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus.MoveFocus(dir)
}

// OnNext stores the current annotations and advances.
func (d *Desk) OnNext(ctx context.Context) (bool, error) {
	return d.advance(ctx, false)
}

// OnSkip stores the current item as skipped and advances.
func (d *Desk) OnSkip(ctx context.Context) (bool, error) {
	return d.advance(ctx, true)
}

func (d *Desk) advance(ctx context.Context, skipped bool) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	item, moved, err := d.session.Next(ctx, d.focus.BuildRecord(skipped))
	if err != nil {
		d.stay(ctx, err)
		return moved, err
	}
	return moved, d.enter(ctx, item)
}

// stay keeps the current grid after a failed navigation. The record may
// already be stored, so the annotated flag is refreshed.
func (d *Desk) stay(ctx context.Context, err error) {
	d.warning = err.Error()
	annotated, aerr := d.session.AlreadyAnnotated(ctx)
	if aerr != nil {
		d.logger.Warn("Annotated Check Failed", "item_id", d.session.Item().ID, "err", aerr)
		return
	}
	d.annotated = annotated
}

// OnBack returns to the previous item without storing anything.
func (d *Desk) OnBack(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	item, moved, err := d.session.Prev(ctx)
	if err != nil {
		d.stay(ctx, err)
		return moved, err
	}
	if !moved {
		return false, nil
	}
	return true, d.enter(ctx, item)
}

// Record snapshots the current grid without storing it.
func (d *Desk) Record(skipped bool) *domain.AnnotationRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus.BuildRecord(skipped)
}

// Done reports whether every item has a stored record.
func (d *Desk) Done(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Done(ctx)
}

// Summary describes the current position, e.g. "Annotating a12 (3/40)".
func (d *Desk) Summary() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Summary()
}

// View returns a snapshot of everything a presentation layer renders.
func (d *Desk) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view()
}
