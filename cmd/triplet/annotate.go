package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/internal/cli"
	"github.com/aretw0/triplet/internal/presentation/tui"
	"github.com/aretw0/triplet/pkg/runner"
	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotate the dataset interactively",
	Long: `Opens the desk at the first item without a stored record.

On a terminal this starts the full screen UI. When stdin or stdout is not a
terminal, a line driver reads commands such as "f 0 1", "t 0 2", "n" or "q".
With --json the driver speaks NDJSON instead, one command per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		mode := cli.ModeAuto
		switch {
		case jsonMode:
			mode = cli.ModeJSON
		case plain:
			mode = cli.ModeText
		}
		interactive := mode == cli.ModeAuto && cli.IsTerminal()

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		ctx := signals.Context()

		app, err := cli.Open(ctx, cfg, cli.WithQuietLogs(interactive || jsonMode))
		if err != nil {
			return err
		}
		defer app.Close()

		if !jsonMode {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(triplet.Version))
			fmt.Printf("Dataset: %s (%d items), store: %s\n", cfg.Dataset, len(app.Items), cfg.DescribeStore())
		}

		return cli.RunAnnotate(ctx, app, cli.AnnotateOptions{Mode: mode})
	},
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	annotateCmd.Flags().Bool("plain", false, "Use the line driver even on a terminal")

	// annotate is the default command.
	rootCmd.RunE = annotateCmd.RunE
	rootCmd.Flags().AddFlagSet(annotateCmd.Flags())
}
