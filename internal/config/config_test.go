package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.PatternsRoot != filepath.Join(".ai", "patterns") {
		t.Errorf("PatternsRoot = %s", cfg.PatternsRoot)
	}
	if cfg.MinPatternLength != 50 {
		t.Errorf("MinPatternLength = %d, want 50", cfg.MinPatternLength)
	}
	if cfg.MaxComplexityWarning != 5 {
		t.Errorf("MaxComplexityWarning = %d, want 5", cfg.MaxComplexityWarning)
	}
	if cfg.DefaultDomain != "frontend" {
		t.Errorf("DefaultDomain = %s, want frontend", cfg.DefaultDomain)
	}
	if cfg.Strategy != StrategySubstring {
		t.Errorf("Strategy = %s, want substring", cfg.Strategy)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MinPatternLength != 50 {
		t.Errorf("MinPatternLength = %d, want default 50", cfg.MinPatternLength)
	}
}

func TestLoad_OverridesAndBackfills(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "min_pattern_length: 100\ndefault_domain: api\nstrategy: simhash\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MinPatternLength != 100 {
		t.Errorf("MinPatternLength = %d, want 100", cfg.MinPatternLength)
	}
	if cfg.DefaultDomain != "api" {
		t.Errorf("DefaultDomain = %s, want api", cfg.DefaultDomain)
	}
	if cfg.Strategy != StrategySimhash {
		t.Errorf("Strategy = %s, want simhash", cfg.Strategy)
	}
	// Unspecified keys keep defaults.
	if cfg.SearchLimit != 10 {
		t.Errorf("SearchLimit = %d, want default 10", cfg.SearchLimit)
	}
	if cfg.PatternsRoot == "" {
		t.Error("PatternsRoot backfill failed")
	}
}

func TestLoad_InvalidStrategyFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("strategy: embeddings\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Strategy != StrategySubstring {
		t.Errorf("Strategy = %s, want substring fallback", cfg.Strategy)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("strategy: [broken\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load with bad YAML = nil error, want error")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	cfg.PatternsRoot = filepath.Join("ws", ".ai", "patterns")

	if got := cfg.BaseDir(); got != filepath.Join("ws", ".ai") {
		t.Errorf("BaseDir = %s", got)
	}
	if got := cfg.IndexPath(); got != filepath.Join("ws", ".ai", "index.db") {
		t.Errorf("IndexPath = %s", got)
	}
	if got := cfg.MetricsPath(); got != filepath.Join("ws", ".ai", "metrics.jsonl") {
		t.Errorf("MetricsPath = %s", got)
	}
	if got := cfg.PhilosophyPath(); got != filepath.Join("ws", ".ai", "philosophy.md") {
		t.Errorf("PhilosophyPath = %s", got)
	}
}
