package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patternfirst/patternctl/internal/config"
	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/templates"
	"github.com/patternfirst/patternctl/internal/workflow"
)

var (
	createDomain     string
	createTask       string
	createFile       string
	createComplexity int
	createTags       []string
	createDeps       []string
	createLanguage   string
)

var createCmd = &cobra.Command{
	Use:   "create-pattern",
	Short: "Scaffold a new pattern, or validate and store a drafted one",
	Long: `Without --file, prints a pattern scaffold to fill in by hand.

With --file, reads the drafted pattern file, validates it and stores it
on success. Rejected drafts are never written; the validator errors are
printed and the command exits 1.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if createFile != "" {
			submitDraft(cfg)
			return
		}

		if createTask == "" {
			fatal("create-pattern", fmt.Errorf("--task is required when printing a scaffold"))
		}
		domain := pattern.Domain(createDomain)
		if err := pattern.ValidateDomain(domain); err != nil {
			fatal("create-pattern", err)
		}

		renderer, err := templates.NewRenderer()
		if err != nil {
			fatal("creating template renderer", err)
		}
		scaffold, err := renderer.Render(templates.Scaffold, templates.ScaffoldData{
			Task:         createTask,
			Domain:       string(domain),
			Complexity:   createComplexity,
			Tags:         createTags,
			Dependencies: createDeps,
			Language:     createLanguage,
		})
		if err != nil {
			fatal("rendering scaffold", err)
		}
		fmt.Print(scaffold)
	},
}

func submitDraft(cfg *config.Config) {
	data, err := os.ReadFile(createFile)
	if err != nil {
		fatal("reading draft", err)
	}
	draft, err := pattern.Parse(data)
	if err != nil {
		fatal("parsing draft", err)
	}

	// Flags override the draft's frontmatter where given.
	if createTask != "" {
		draft.Meta.Task = createTask
	}
	if createDomain != "" {
		draft.Meta.Domain = pattern.Domain(createDomain)
	}
	if err := pattern.ValidateDomain(draft.Meta.Domain); err != nil {
		fatal("create-pattern", err)
	}

	engine, cleanup := buildEngine(cfg)
	defer cleanup()

	res, err := engine.Submit(draft)
	if err != nil {
		fatal("storing pattern", err)
	}

	if res.State() == workflow.StateRejected {
		fmt.Fprintln(os.Stderr, "Pattern rejected, nothing was written:")
		for _, e := range res.Validation.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}

	fmt.Printf("Stored pattern %s/%s (version %s)\n",
		res.Pattern.Meta.Domain, res.Pattern.Slug, res.Pattern.Meta.Version)
	for _, w := range res.Validation.Warnings {
		fmt.Printf("  (warning) %s\n", w)
	}
}

func init() {
	createCmd.Flags().StringVar(&createDomain, "domain", "", "Pattern domain: "+domainList())
	createCmd.Flags().StringVar(&createTask, "task", "", "Task description the pattern solves")
	createCmd.Flags().StringVar(&createFile, "file", "", "Drafted pattern file to validate and store")
	createCmd.Flags().IntVar(&createComplexity, "complexity", 0, "Complexity 1-5 for the scaffold")
	createCmd.Flags().StringSliceVar(&createTags, "tags", nil, "Tags for the scaffold")
	createCmd.Flags().StringSliceVar(&createDeps, "deps", nil, "Dependencies for the scaffold")
	createCmd.Flags().StringVar(&createLanguage, "language", "", "Code fence language for the scaffold")
	rootCmd.AddCommand(createCmd)
}

func domainList() string {
	var names []string
	for _, d := range pattern.Domains() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
