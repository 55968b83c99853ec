package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/patternfirst/patternctl/internal/config"
	"github.com/patternfirst/patternctl/internal/genai"
	"github.com/patternfirst/patternctl/internal/index"
	"github.com/patternfirst/patternctl/internal/match"
	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/router"
	"github.com/patternfirst/patternctl/internal/store"
	"github.com/patternfirst/patternctl/internal/validate"
	"github.com/patternfirst/patternctl/internal/workflow"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "patternctl",
	Short: "Pattern-first code generation from a store of validated patterns",
	Long: `patternctl keeps a filesystem store of validated solution patterns,
one markdown file per pattern, partitioned by domain. Tasks are routed
to a domain, matched against stored patterns and only when nothing
matches is a new pattern drafted, validated and stored.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default .ai/config.yaml)")
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// loadConfig resolves the effective configuration for the current
// working directory.
func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			fatal("getting working directory", err)
		}
		path = config.DefaultConfigPath(wd)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal("loading config", err)
	}
	return &cfg
}

// openComponents builds the store, matcher and index for read paths.
// The cleanup function closes the index and is always non-nil.
func openComponents(cfg *config.Config) (*store.FileStore, match.Matcher, func()) {
	fileStore := store.NewFileStore(cfg.PatternsRoot)

	cleanup := func() {}
	ix, err := index.Open(cfg.IndexPath())
	if err != nil {
		slog.Debug("search index unavailable, using substring scan", "error", err)
		ix = nil
	} else {
		fileStore.SetIndexer(ix)
		cleanup = func() { _ = ix.Close() }
	}

	return fileStore, match.ForConfig(cfg, fileStore, ix), cleanup
}

// buildEngine wires the full workflow engine for write paths.
func buildEngine(cfg *config.Config) (*workflow.Engine, func()) {
	fileStore, matcher, cleanup := openComponents(cfg)

	philosophy := ""
	if data, err := os.ReadFile(cfg.PhilosophyPath()); err == nil {
		philosophy = string(data)
	}

	engine := workflow.NewEngine(
		router.New(pattern.Domain(cfg.DefaultDomain)),
		matcher,
		validate.New(cfg),
		fileStore,
		genai.NewWithRetry(genai.NewCommand(cfg.GeneratorCommand)),
		workflow.Options{
			Metrics:     workflow.NewRecorder(cfg.MetricsPath()),
			SearchLimit: cfg.SearchLimit,
			Philosophy:  philosophy,
		},
	)
	return engine, cleanup
}
