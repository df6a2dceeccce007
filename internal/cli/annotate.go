package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/internal/presentation/tui"
	"github.com/aretw0/triplet/pkg/runner"
	"golang.org/x/term"
)

// Mode selects the annotate front end.
type Mode int

const (
	// ModeAuto picks the terminal UI when stdin and stdout are terminals,
	// the line driver otherwise.
	ModeAuto Mode = iota
	ModeTUI
	ModeText
	ModeJSON
)

// AnnotateOptions configures RunAnnotate.
type AnnotateOptions struct {
	Mode Mode
	In   io.Reader
	Out  io.Writer
}

// IsTerminal reports whether both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// RunAnnotate drives a desk until the user quits or input ends.
func RunAnnotate(ctx context.Context, app *App, opts AnnotateOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	mode := opts.Mode
	if mode == ModeAuto {
		mode = ModeText
		if IsTerminal() {
			mode = ModeTUI
		}
	}

	desk, err := app.NewDesk(ctx)
	if err != nil {
		return fmt.Errorf("error initializing desk: %w", err)
	}
	app.Logger.Info("Annotation Started", "summary", desk.Summary())

	keys := app.Config.Keys
	switch mode {
	case ModeTUI:
		err = tui.Run(ctx, desk, tui.Keys{Left: keys.Left, Right: keys.Right})
	case ModeJSON:
		r := runner.New(
			runner.WithLogger(app.Logger),
			runner.WithHandler(runner.NewJSONHandler(opts.In, opts.Out)),
		)
		err = r.Run(ctx, desk)
	default:
		r := runner.New(
			runner.WithLogger(app.Logger),
			runner.WithHandler(runner.NewTextHandler(opts.In, opts.Out,
				runner.WithKeys(keys.Left, keys.Right),
				runner.WithPrompt(IsTerminal()),
			)),
		)
		err = r.Run(ctx, desk)
	}
	if err != nil {
		return err
	}

	if mode != ModeJSON {
		logCompletion(opts.Out, desk)
	}
	return nil
}

func logCompletion(w io.Writer, desk *triplet.Desk) {
	done, err := desk.Done(context.Background())
	switch {
	case err != nil:
		fmt.Fprintf(w, ">>> Stopped at %s.\n", desk.Summary())
	case done:
		fmt.Fprintln(w, ">>> Every item has a stored record.")
	default:
		fmt.Fprintf(w, ">>> Stopped at %s. Run again to resume.\n", desk.Summary())
	}
}
