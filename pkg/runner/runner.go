package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Runner reads commands from its Handler, applies them to a desk and writes
// one Response per command. Quitting never stores the current item.
type Runner struct {
	Handler IOHandler
	Logger  *slog.Logger
	Signals bool
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures the IOHandler (default: JSON over Stdin/Stdout).
func WithHandler(h IOHandler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithSignals makes Run stop on SIGINT/SIGTERM.
func WithSignals(on bool) Option {
	return func(r *Runner) {
		r.Signals = on
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewJSONHandler(nil, nil)
	}
	return r
}

// Run emits the initial view, then loops until quit, end of input or
// cancellation. End of input and quit return nil. The handler is closed on
// return.
func (r *Runner) Run(ctx context.Context, desk Desk) error {
	defer r.Handler.Close()

	if r.Signals {
		signals := NewSignalManager(ctx)
		defer signals.Stop()
		ctx = signals.Context()
	}

	v := desk.View()
	if err := r.Handler.Output(ctx, Response{Op: OpView, OK: true, View: &v}); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		cmd, err := r.Handler.Input(ctx)
		if err != nil {
			var cmdErr *CommandError
			switch {
			case errors.As(err, &cmdErr):
				r.Logger.Debug("Command Rejected", "err", err)
				if err := r.Handler.Output(ctx, Response{Error: err.Error()}); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, context.Canceled):
				r.Logger.Info("Annotation Interrupted", "item_id", desk.View().ItemID)
				return nil
			default:
				return fmt.Errorf("input error: %w", err)
			}
		}

		if cmd.Op == OpQuit {
			r.Logger.Info("Annotation Stopped", "item_id", desk.View().ItemID)
			return nil
		}

		resp, err := Apply(ctx, desk, cmd)
		if err != nil {
			r.Logger.Debug("Command Failed", "op", cmd.Op, "err", err)
		}
		if err := r.Handler.Output(ctx, resp); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}
