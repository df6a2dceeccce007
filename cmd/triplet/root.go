package main

import (
	"fmt"
	"os"

	"github.com/aretw0/triplet/internal/cli"
	"github.com/aretw0/triplet/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triplet",
	Short: "Triplet is a desk for annotating dialogues with triples",
	Long: `Triplet walks a dataset of dialogues one item at a time. Each item is
tokenized into turns, and you fill a grid of (subject, predicate, object,
polarity, certainty) triples by picking tokens. Records are stored per item,
so a run resumes at the first item without one.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "Config file (default "+config.DefaultFile+" if present)")
	pf.StringP("dataset", "d", "", "Dataset file (JSON or YAML array of items)")
	pf.String("out", "", "Output directory of the file store")
	pf.String("store", "", "Store backend: file, sqlite, redis or memory")
	pf.Int("triples", 0, "Number of triple rows per item")
	pf.String("sep", "", "Turn separator inside the item text")
	pf.Bool("debug", false, "Enable debug logging on stderr")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	var f cli.Flags
	f.Dataset, _ = flags.GetString("dataset")
	f.OutputDir, _ = flags.GetString("out")
	f.Store, _ = flags.GetString("store")
	f.NumTriples, _ = flags.GetInt("triples")
	f.Separator, _ = flags.GetString("sep")
	f.Debug, _ = flags.GetBool("debug")
	return cli.LoadConfig(path, f)
}
