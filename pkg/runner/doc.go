/*
Package runner drives a triplet.Desk from a line-oriented command stream.

It is the headless counterpart of the terminal UI: every input line is one
desk event, and every event is answered with the resulting view.

# Key Components

  - Runner: the read, apply, respond loop.
  - JSONHandler: NDJSON commands in, NDJSON responses out (annotate --json).
  - TextHandler: short text commands ("focus 0 1", "assign 0 2", "next") for
    pipes and terminals without a TUI.

# Usage

	r := runner.New(runner.WithHandler(runner.NewJSONHandler(os.Stdin, os.Stdout)))
	if err := r.Run(ctx, desk); err != nil {
		log.Fatal(err)
	}

A session over NDJSON looks like:

	{"op":"focus","row":0,"slot":0}
	{"op":"assign","turn":0,"token":2}
	{"op":"move","dir":"right"}
	{"op":"next"}
*/
package runner
