package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patternfirst/patternctl/internal/pattern"
)

var (
	listDomain string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored patterns grouped by domain",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		var domain pattern.Domain
		if listDomain != "" {
			domain = pattern.Domain(listDomain)
			if err := pattern.ValidateDomain(domain); err != nil {
				fatal("list", err)
			}
		}

		fileStore, _, cleanup := openComponents(cfg)
		defer cleanup()

		all, err := fileStore.GetAll(domain)
		if err != nil {
			fatal("reading store", err)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(all); err != nil {
				fatal("encoding patterns", err)
			}
			return
		}

		if len(all) == 0 {
			fmt.Println("The pattern store is empty.")
			return
		}

		byDomain := make(map[pattern.Domain][]pattern.Pattern)
		for _, p := range all {
			byDomain[p.Meta.Domain] = append(byDomain[p.Meta.Domain], p)
		}
		fmt.Printf("%d stored pattern(s)\n", len(all))
		for _, d := range pattern.Domains() {
			group := byDomain[d]
			if len(group) == 0 {
				continue
			}
			fmt.Printf("\n%s (%d)\n", d, len(group))
			for _, p := range group {
				fmt.Printf("  %s  %s (version %s)\n", p.Slug, p.Meta.Task, p.Meta.Version)
			}
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listDomain, "domain", "", "List a single domain: "+domainList())
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output patterns as JSON")
	rootCmd.AddCommand(listCmd)
}
