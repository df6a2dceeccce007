package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/domain"
)

// TextHandler implements IOHandler with short text commands and a plain
// rendering of the view.
type TextHandler struct {
	pump   *linePump
	Writer io.Writer
	left   string
	right  string
	prompt bool
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithKeys binds the single-word shortcuts for left and right focus moves.
func WithKeys(left, right string) TextHandlerOption {
	return func(h *TextHandler) {
		if left != "" {
			h.left = left
		}
		if right != "" {
			h.right = right
		}
	}
}

// WithPrompt toggles the "> " prompt (on by default).
func WithPrompt(on bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.prompt = on
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		pump:   newLinePump(r),
		Writer: w,
		left:   "a",
		right:  "s",
		prompt: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Output(_ context.Context, resp Response) error {
	if resp.Error != "" {
		fmt.Fprintf(h.Writer, "error: %s\n", resp.Error)
		return nil
	}
	if resp.Moved != nil && !*resp.Moved {
		fmt.Fprintln(h.Writer, "(no move)")
	}
	if resp.Done != nil {
		fmt.Fprintf(h.Writer, "done: %t\n", *resp.Done)
	}
	if resp.Record != nil {
		fmt.Fprintf(h.Writer, "record: %d of %d triples filled\n", resp.Record.Annotated(), len(resp.Record.Triples))
	}
	if resp.View != nil {
		_, err := io.WriteString(h.Writer, RenderText(*resp.View))
		return err
	}
	return nil
}

// Close stops the input reader.
func (h *TextHandler) Close() error {
	h.pump.stop()
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	if h.prompt && ctx.Err() == nil {
		fmt.Fprint(h.Writer, "> ")
	}
	line, err := h.pump.next(ctx)
	if err != nil {
		if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
			return Command{}, &CommandError{Err: err}
		}
		return Command{}, err
	}
	return h.Parse(line)
}

// Parse turns one text line into a Command.
//
//	focus|f ROW SLOT    assign|t TURN TOKEN    left|right|<left key>|<right key>
//	next|n   skip|x   back|b   view|v   record|r   done   quit|q
func (h *TextHandler) Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, &CommandError{Line: line, Err: errors.New("empty command")}
	}

	word := strings.ToLower(fields[0])
	switch word {
	case h.left, "left":
		return Command{Op: OpMove, Dir: domain.DirectionLeft}, nil
	case h.right, "right":
		return Command{Op: OpMove, Dir: domain.DirectionRight}, nil
	}

	switch word {
	case "focus", "f":
		a, b, err := twoInts(fields)
		if err != nil {
			return Command{}, &CommandError{Line: line, Err: err}
		}
		return Command{Op: OpFocus, Row: a, Slot: b}, nil
	case "assign", "t":
		a, b, err := twoInts(fields)
		if err != nil {
			return Command{}, &CommandError{Line: line, Err: err}
		}
		return Command{Op: OpAssign, Turn: a, Token: b}, nil
	case "next", "n":
		return Command{Op: OpNext}, nil
	case "skip", "x":
		return Command{Op: OpSkip}, nil
	case "back", "b":
		return Command{Op: OpBack}, nil
	case "view", "v":
		return Command{Op: OpView}, nil
	case "record", "r":
		return Command{Op: OpRecord}, nil
	case "done":
		return Command{Op: OpDone}, nil
	case "quit", "q", "exit":
		return Command{Op: OpQuit}, nil
	}
	return Command{}, &CommandError{Line: line, Err: ErrUnknownCommand}
}

func twoInts(fields []string) (int, int, error) {
	if len(fields) != 3 {
		return 0, 0, fmt.Errorf("%s takes two numbers", fields[0])
	}
	a, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// RenderText formats a view for plain terminals: numbered tokens per turn,
// then one line per triple with the focused slot starred.
func RenderText(v triplet.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", v.Summary)
	if v.AlreadyAnnotated {
		b.WriteString("(already annotated)\n")
	}
	if v.Warning != "" {
		fmt.Fprintf(&b, "warning: %s\n", v.Warning)
	}
	for t, turn := range v.Turns {
		fmt.Fprintf(&b, "turn %d:", t)
		for i, tok := range turn {
			fmt.Fprintf(&b, " %s/%d", tok, i)
		}
		b.WriteByte('\n')
	}
	for r, row := range v.Rows {
		fmt.Fprintf(&b, "%d |", r)
		for _, cell := range row.Slots {
			mark := " "
			if cell.Highlighted {
				mark = "*"
			}
			label := cell.Label()
			if cell.Empty {
				label = "<" + label + ">"
			}
			fmt.Fprintf(&b, "%s%s |", mark, label)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
