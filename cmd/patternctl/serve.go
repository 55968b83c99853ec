package main

import (
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/patternfirst/patternctl/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Exposes the pattern store over the Model Context Protocol so AI
coding tools can search, generate and validate patterns directly.
Logs go to stderr; stdout is reserved for the MCP transport.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		s, cleanup, err := server.New(cfg)
		if err != nil {
			fatal("creating server", err)
		}
		defer cleanup()

		// Make sure the index database is closed on interrupt too;
		// ServeStdio returns when stdin closes, not on signals.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			cleanup()
			os.Exit(0)
		}()

		if err := mcpserver.ServeStdio(s); err != nil {
			fatal("serving", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
