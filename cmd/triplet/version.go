package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/triplet"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of triplet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("triplet version %s\n", strings.TrimSpace(triplet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
