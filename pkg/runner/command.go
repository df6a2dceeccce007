package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/domain"
)

// Command operations.
const (
	OpFocus  = "focus"
	OpAssign = "assign"
	OpMove   = "move"
	OpNext   = "next"
	OpSkip   = "skip"
	OpBack   = "back"
	OpView   = "view"
	OpRecord = "record"
	OpDone   = "done"
	OpQuit   = "quit"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Desk is the event surface of triplet.Desk.
type Desk interface {
	View() triplet.View
	OnTokenClick(turn, token int) error
	OnSlotClick(row, slot int) error
	OnDirectionKey(dir domain.Direction) bool
	OnNext(ctx context.Context) (bool, error)
	OnSkip(ctx context.Context) (bool, error)
	OnBack(ctx context.Context) (bool, error)
	Record(skipped bool) *domain.AnnotationRecord
	Done(ctx context.Context) (bool, error)
}

var _ Desk = (*triplet.Desk)(nil)

// Command is one desk event.
type Command struct {
	Op    string           `json:"op"`
	Row   int              `json:"row,omitempty"`
	Slot  int              `json:"slot,omitempty"`
	Turn  int              `json:"turn,omitempty"`
	Token int              `json:"token,omitempty"`
	Dir   domain.Direction `json:"dir,omitempty"`
}

// Response answers one Command. View is always the state after the command.
type Response struct {
	Op     string                   `json:"op"`
	OK     bool                     `json:"ok"`
	Error  string                   `json:"error,omitempty"`
	Moved  *bool                    `json:"moved,omitempty"`
	Done   *bool                    `json:"done,omitempty"`
	Record *domain.AnnotationRecord `json:"record,omitempty"`
	View   *triplet.View            `json:"view,omitempty"`
}

// Apply runs cmd against desk. A failure is returned and also reported in
// Response.Error; quit is left to the caller.
func Apply(ctx context.Context, desk Desk, cmd Command) (Response, error) {
	resp := Response{Op: cmd.Op}

	var err error
	switch cmd.Op {
	case OpFocus:
		err = desk.OnSlotClick(cmd.Row, cmd.Slot)
	case OpAssign:
		err = desk.OnTokenClick(cmd.Turn, cmd.Token)
	case OpMove:
		if cmd.Dir != domain.DirectionLeft && cmd.Dir != domain.DirectionRight {
			err = fmt.Errorf("%w %q", ErrInvalidDirection, cmd.Dir)
			break
		}
		resp.Moved = ptr(desk.OnDirectionKey(cmd.Dir))
	case OpNext, OpSkip, OpBack:
		var moved bool
		switch cmd.Op {
		case OpNext:
			moved, err = desk.OnNext(ctx)
		case OpSkip:
			moved, err = desk.OnSkip(ctx)
		default:
			moved, err = desk.OnBack(ctx)
		}
		resp.Moved = ptr(moved)
	case OpRecord:
		resp.Record = desk.Record(false)
	case OpDone:
		var done bool
		done, err = desk.Done(ctx)
		resp.Done = ptr(done)
	case OpView:
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}

	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.OK = true
	}
	v := desk.View()
	resp.View = &v
	return resp, err
}

func ptr[T any](v T) *T {
	return &v
}
