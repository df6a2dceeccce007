package runner

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// DefaultInputBufferSize is the number of lines read ahead of the runner.
const DefaultInputBufferSize = 64

// IOHandler is the wire strategy of the Runner.
type IOHandler interface {
	// Output presents a response.
	Output(ctx context.Context, resp Response) error

	// Input blocks for the next command. It returns io.EOF when the stream ends
	// and a *CommandError for lines that do not parse.
	Input(ctx context.Context) (Command, error)

	// Close stops background reading. Input returns io.EOF afterwards.
	Close() error
}

// CommandError reports an input line that could not be parsed.
// The runner answers it and keeps reading.
type CommandError struct {
	Line string
	Err  error
}

func (e *CommandError) Error() string {
	return "invalid command " + strings.TrimSpace(e.Line) + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }

type inputResult struct {
	text string
	err  error
}

// linePump reads lines in the background so Input can honor context cancellation.
// stop releases the reader goroutine once its pending read returns.
type linePump struct {
	reader  *bufio.Reader
	lines   chan inputResult
	done    chan struct{}
	exited  chan struct{}
	once    sync.Once
	stopped sync.Once
}

func newLinePump(r io.Reader) *linePump {
	return &linePump{
		reader: bufio.NewReader(r),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

func (p *linePump) start() {
	p.once.Do(func() {
		p.lines = make(chan inputResult, DefaultInputBufferSize)
		go p.run()
	})
}

func (p *linePump) stop() {
	p.stopped.Do(func() { close(p.done) })
}

func (p *linePump) run() {
	defer close(p.exited)
	defer close(p.lines)
	for {
		text, err := p.reader.ReadString('\n')
		if strings.TrimSpace(text) != "" && !p.send(inputResult{text: text}) {
			return
		}
		if err != nil {
			if err != io.EOF {
				p.send(inputResult{err: err})
			}
			return
		}
	}
}

func (p *linePump) send(res inputResult) bool {
	select {
	case p.lines <- res:
		return true
	case <-p.done:
		return false
	}
}

// next returns the next non-blank line, sanitized.
func (p *linePump) next(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return "", io.EOF
	default:
	}
	p.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.done:
		return "", io.EOF
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return SanitizeInput(strings.TrimSpace(res.text))
	}
}
