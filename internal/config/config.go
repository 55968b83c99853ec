// Package config holds the explicit configuration object passed into every
// component at construction time. There is no implicit global state: the CLI
// and the MCP server both resolve one Config and hand it down.
//
// Configuration is read from an optional YAML file under the workspace
// (.ai/config.yaml by default); absent files and absent keys fall back to
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Strategy selects the pattern matching implementation.
type Strategy string

const (
	StrategySubstring Strategy = "substring"
	StrategySimhash   Strategy = "simhash"
)

// DefaultDir is the workspace directory holding patterns, index, config,
// philosophy, and metrics.
const DefaultDir = ".ai"

// ConfigFile is the filename of the optional configuration file inside
// the workspace directory.
const ConfigFile = "config.yaml"

// Config holds all recognized options.
type Config struct {
	// PatternsRoot is the directory holding one subdirectory per domain.
	PatternsRoot string `yaml:"patterns_root"`

	// MinPatternLength is the minimum content length accepted by the
	// validator.
	MinPatternLength int `yaml:"min_pattern_length"`

	// MaxComplexityWarning is the complexity above which the validator
	// emits a (non-blocking) warning. Independent of the 1-5 scale.
	MaxComplexityWarning int `yaml:"max_complexity_warning"`

	// DefaultDomain is the routing fallback when no keyword matches.
	DefaultDomain string `yaml:"default_domain"`

	// Strategy selects the matcher: "substring" or "simhash".
	Strategy Strategy `yaml:"strategy"`

	// SearchLimit bounds result counts when the caller doesn't.
	SearchLimit int `yaml:"search_limit"`

	// SimhashCutoff is the maximum Hamming distance (of 64 bits) for the
	// simhash strategy to consider a pattern a match.
	SimhashCutoff int `yaml:"simhash_cutoff"`

	// GeneratorCommand, when set, is executed by the generation backend
	// with the prompt on stdin and the completion read from stdout.
	// Empty means no generation backend is configured.
	GeneratorCommand []string `yaml:"generator_command"`
}

// Default returns the configuration used when no file overrides exist.
func Default() Config {
	return Config{
		PatternsRoot:         filepath.Join(DefaultDir, "patterns"),
		MinPatternLength:     50,
		MaxComplexityWarning: 5,
		DefaultDomain:        "frontend",
		Strategy:             StrategySubstring,
		SearchLimit:          10,
		SimhashCutoff:        24,
	}
}

// Load reads the configuration file at path, layering it over defaults.
// A missing file is not an error — defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize backfills zero values so a sparse config file can't disable
// required settings.
func (c *Config) normalize() {
	def := Default()
	if c.PatternsRoot == "" {
		c.PatternsRoot = def.PatternsRoot
	}
	if c.MinPatternLength <= 0 {
		c.MinPatternLength = def.MinPatternLength
	}
	if c.MaxComplexityWarning <= 0 {
		c.MaxComplexityWarning = def.MaxComplexityWarning
	}
	if c.DefaultDomain == "" {
		c.DefaultDomain = def.DefaultDomain
	}
	if c.Strategy != StrategySubstring && c.Strategy != StrategySimhash {
		c.Strategy = def.Strategy
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = def.SearchLimit
	}
	if c.SimhashCutoff <= 0 || c.SimhashCutoff > 64 {
		c.SimhashCutoff = def.SimhashCutoff
	}
}

// BaseDir returns the workspace directory containing the patterns root.
func (c Config) BaseDir() string {
	return filepath.Dir(c.PatternsRoot)
}

// IndexPath returns the location of the derived SQLite search index.
func (c Config) IndexPath() string {
	return filepath.Join(c.BaseDir(), "index.db")
}

// MetricsPath returns the location of the JSONL workflow metrics log.
func (c Config) MetricsPath() string {
	return filepath.Join(c.BaseDir(), "metrics.jsonl")
}

// PhilosophyPath returns the location of the philosophy document exposed
// as an MCP resource.
func (c Config) PhilosophyPath() string {
	return filepath.Join(c.BaseDir(), "philosophy.md")
}

// DefaultConfigPath returns the conventional config file location for a
// given working directory.
func DefaultConfigPath(dir string) string {
	return filepath.Join(dir, DefaultDir, ConfigFile)
}
