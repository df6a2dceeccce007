package main

import (
	"os"

	"github.com/aretw0/triplet/internal/cli"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show annotation progress over the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := cli.Open(cmd.Context(), cfg, cli.WithQuietLogs(true))
		if err != nil {
			return err
		}
		defer app.Close()

		st, err := cli.CollectStatus(cmd.Context(), app.Store, app.Items)
		if err != nil {
			return err
		}
		cli.PrintStatus(cmd.OutOrStdout(), st)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <item-id>",
	Short: "Render the stored record of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := cli.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		plain, _ := cmd.Flags().GetBool("plain")
		if !cli.IsTerminal() {
			plain = true
		}
		return cli.Inspect(cmd.Context(), store, args[0], os.Stdout, plain)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <item-id>...",
	Short: "Remove stored records so the items are annotated again",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := cli.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		return cli.Reset(cmd.Context(), store, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resetCmd)

	inspectCmd.Flags().Bool("plain", false, "Print raw markdown")
}
