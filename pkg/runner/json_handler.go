package runner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
)

// JSONHandler implements IOHandler over JSON Lines.
type JSONHandler struct {
	pump    *linePump
	mu      sync.Mutex
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler reading commands from r and writing
// responses to w (Stdin and Stdout when nil).
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		pump:    newLinePump(r),
		Encoder: json.NewEncoder(w),
	}
}

// Output writes resp as a single JSON line.
func (h *JSONHandler) Output(_ context.Context, resp Response) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(resp)
}

// Close stops the input reader.
func (h *JSONHandler) Close() error {
	h.pump.stop()
	return nil
}

// Input decodes the next line as a Command. A bare JSON string such as "next"
// is accepted as shorthand for {"op":"next"}.
func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	line, err := h.pump.next(ctx)
	if err != nil {
		if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
			return Command{}, &CommandError{Line: "", Err: err}
		}
		return Command{}, err
	}

	var op string
	if err := json.Unmarshal([]byte(line), &op); err == nil {
		return Command{Op: op}, nil
	}

	var cmd Command
	if err := json.Unmarshal([]byte(line), &cmd); err != nil {
		return Command{}, &CommandError{Line: line, Err: err}
	}
	if cmd.Op == "" {
		return Command{}, &CommandError{Line: line, Err: errors.New(`missing "op"`)}
	}
	return cmd, nil
}
