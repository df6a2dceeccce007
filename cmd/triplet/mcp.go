package main

import (
	"io"
	"log"
	"os"

	"github.com/aretw0/triplet/internal/cli"
	"github.com/aretw0/triplet/pkg/runner"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the desk as MCP tools, so an agent can annotate the dataset.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("listen")

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		ctx := signals.Context()

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		var opts []cli.AppOption
		if transport == cli.TransportStdio && !cfg.Debug {
			opts = append(opts, cli.WithLogOutput(io.Discard))
		}

		app, err := cli.Open(ctx, cfg, opts...)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.ServeMCP(ctx, app, transport, addr)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().StringP("listen", "l", ":8081", "Address to listen on (only for SSE)")
}
