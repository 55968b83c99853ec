package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patternfirst/patternctl/internal/workflow"
)

var generateJSON bool

var generateCmd = &cobra.Command{
	Use:   "generate <task>",
	Short: "Run the pattern-first flow for a task",
	Long: `Routes the task to a domain, searches the store and reuses the best
matching pattern. When nothing matches, a new pattern is drafted by the
configured generator, validated and stored.

Exits 0 when the flow completes (pattern reused or created) and 1 when
a drafted pattern is rejected by the validator.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		task := strings.Join(args, " ")
		cfg := loadConfig()

		engine, cleanup := buildEngine(cfg)
		defer cleanup()

		res, err := engine.Run(context.Background(), task)
		if err != nil {
			fatal("generate", err)
		}

		if generateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				fatal("encoding result", err)
			}
		} else {
			printResult(res)
		}

		if res.State() == workflow.StateRejected {
			os.Exit(1)
		}
	},
}

func printResult(res *workflow.Result) {
	fmt.Printf("Task:   %s\n", res.Task)
	fmt.Printf("Domain: %s\n", res.Domain)
	fmt.Printf("Trace:  %s\n", traceString(res.Trace))

	switch {
	case res.Reused:
		fmt.Printf("\nReused pattern %s/%s (version %s)\n\n",
			res.Pattern.Meta.Domain, res.Pattern.Slug, res.Pattern.Meta.Version)
		fmt.Println(res.Pattern.Content)
	case res.State() == workflow.StateRejected:
		fmt.Println("\nPattern rejected, nothing was written:")
		for _, e := range res.Validation.Errors {
			fmt.Printf("  - %s\n", e)
		}
		for _, w := range res.Validation.Warnings {
			fmt.Printf("  (warning) %s\n", w)
		}
	default:
		fmt.Printf("\nCreated pattern %s/%s\n", res.Pattern.Meta.Domain, res.Pattern.Slug)
		for _, w := range res.Validation.Warnings {
			fmt.Printf("  (warning) %s\n", w)
		}
	}
}

func traceString(trace []workflow.State) string {
	parts := make([]string, len(trace))
	for i, s := range trace {
		parts[i] = string(s)
	}
	return strings.Join(parts, " -> ")
}

func init() {
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Output the full result as JSON")
	rootCmd.AddCommand(generateCmd)
}
