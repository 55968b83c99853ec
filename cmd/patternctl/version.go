package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patternfirst/patternctl/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the patternctl version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("patternctl v%s\n", server.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
