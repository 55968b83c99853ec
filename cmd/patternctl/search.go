package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patternfirst/patternctl/internal/pattern"
)

var (
	searchDomain string
	searchLimit  int
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the pattern store",
	Long: `Searches stored patterns with the configured matching strategy.
Pass --domain to restrict the search to a single domain.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		var domain pattern.Domain
		if searchDomain != "" {
			domain = pattern.Domain(searchDomain)
			if err := pattern.ValidateDomain(domain); err != nil {
				fatal("search", err)
			}
		}

		limit := searchLimit
		if limit <= 0 {
			limit = cfg.SearchLimit
		}

		_, matcher, cleanup := openComponents(cfg)
		defer cleanup()

		matches, err := matcher.Search(args[0], limit, domain)
		if err != nil {
			fatal("searching patterns", err)
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(matches); err != nil {
				fatal("encoding results", err)
			}
			return
		}

		if len(matches) == 0 {
			fmt.Printf("No patterns match %q.\n", args[0])
			return
		}
		fmt.Printf("%d pattern(s) for %q:\n", len(matches), args[0])
		for _, p := range matches {
			fmt.Printf("  %s/%s  %s (complexity %d)\n",
				p.Meta.Domain, p.Slug, p.Meta.Task, p.Meta.Complexity)
		}
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchDomain, "domain", "", "Restrict search to one domain: "+domainList())
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output matches as JSON")
	rootCmd.AddCommand(searchCmd)
}
