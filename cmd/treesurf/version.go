package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of treesurf",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("treesurf %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
