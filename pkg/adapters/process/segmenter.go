package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Segmenter runs an external tokenizer (e.g. a spaCy script) once per item.
//
// Protocol: the process receives a JSON array of turn strings on stdin and must
// print a JSON array of token arrays, one per turn, on stdout.
type Segmenter struct {
	Command string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// NewSegmenter builds a Segmenter from an argv slice.
func NewSegmenter(argv []string, timeout time.Duration) (*Segmenter, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, fmt.Errorf("tokenizer command cannot be empty")
	}
	return &Segmenter{Command: argv[0], Args: argv[1:], Timeout: timeout}, nil
}

// Segment executes the command and decodes its output.
func (s *Segmenter) Segment(ctx context.Context, turns []string) ([][]string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	input, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("failed to encode turns: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Dir = s.Dir
	cmd.Stdin = bytes.NewReader(input)
	// Grandchildren holding stdout open must not outlive a cancelled context.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tokenizer %s failed: %w. Stderr: %s", s.Command, err, strings.TrimSpace(stderr.String()))
	}

	var out [][]string
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &out); err != nil {
		return nil, fmt.Errorf("tokenizer %s returned invalid output: %w", s.Command, err)
	}
	return out, nil
}
