package index

import (
	"path/filepath"
	"testing"

	"github.com/patternfirst/patternctl/internal/pattern"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func indexedPattern(task string, domain pattern.Domain, slug, content string) *pattern.Pattern {
	return &pattern.Pattern{
		Meta: pattern.Metadata{
			Task:   task,
			Domain: domain,
			Tags:   []string{"test", "sample"},
		},
		Content: content,
		Slug:    slug,
	}
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "index.db")
	ix, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = ix.Close() }()

	n, err := ix.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("new index count = %d, want 0", n)
	}
}

func TestUpsert_InsertThenUpdate(t *testing.T) {
	ix := testIndex(t)
	p := indexedPattern("create navigation component", pattern.DomainFrontend,
		"create-navigation-component", "## Description\n\nResponsive navigation bar.\n")

	if err := ix.Upsert(p); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	p.Content = "## Description\n\nRevised navigation bar with mobile menu.\n"
	if err := ix.Upsert(p); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	n, err := ix.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("count after upsert of same slug = %d, want 1", n)
	}
}

func TestSearch_DomainNameIsNotIndexedText(t *testing.T) {
	ix := testIndex(t)
	p := indexedPattern("create users table migration", pattern.DomainDatabase,
		"create-users-table-migration", "Add a users table with id and email columns.\n")
	if err := ix.Upsert(p); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// "database" only names the domain; the pattern's own text never
	// mentions it, so the query must not recall the entry.
	results, err := ix.Search("database", 10, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search(database) = %+v, want no results", results)
	}
}

func TestSearch_MatchesTaskAndContent(t *testing.T) {
	ix := testIndex(t)
	patterns := []*pattern.Pattern{
		indexedPattern("create navigation component", pattern.DomainFrontend,
			"create-navigation-component", "A responsive navbar with links.\n"),
		indexedPattern("setup nextjs project", pattern.DomainInfrastructure,
			"setup-nextjs-project", "Scaffold a new application.\n"),
	}
	for _, p := range patterns {
		if err := ix.Upsert(p); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	results, err := ix.Search("navigation", 10, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "create-navigation-component" {
		t.Errorf("Search(navigation) = %+v", results)
	}

	// Content terms match too.
	results, err = ix.Search("scaffold", 10, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "setup-nextjs-project" {
		t.Errorf("Search(scaffold) = %+v", results)
	}
}

func TestSearch_DomainScope(t *testing.T) {
	ix := testIndex(t)
	a := indexedPattern("create user form", pattern.DomainFrontend, "create-user-form", "Form with user fields.\n")
	b := indexedPattern("create user endpoint", pattern.DomainAPI, "create-user-endpoint", "REST endpoint for user records.\n")
	for _, p := range []*pattern.Pattern{a, b} {
		if err := ix.Upsert(p); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	results, err := ix.Search("user", 10, pattern.DomainAPI)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Domain != pattern.DomainAPI {
		t.Errorf("domain-scoped search = %+v", results)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	ix := testIndex(t)

	results, err := ix.Search("   ", 10, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query results = %d, want 0", len(results))
	}
}

func TestSearch_PunctuationDoesNotBreakQuery(t *testing.T) {
	ix := testIndex(t)
	p := indexedPattern("setup nextjs project", pattern.DomainInfrastructure,
		"setup-nextjs-project", "Scaffold a next.js application.\n")
	if err := ix.Upsert(p); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Quotes and FTS operators in user input must not become syntax.
	if _, err := ix.Search(`next.js "AND" (project)`, 10, ""); err != nil {
		t.Errorf("punctuated query failed: %v", err)
	}
}

func TestEntries_ReturnsFingerprints(t *testing.T) {
	ix := testIndex(t)
	p := indexedPattern("create login form", pattern.DomainFrontend,
		"create-login-form", "Login form with email and password inputs.\n")
	if err := ix.Upsert(p); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	entries, err := ix.Entries(pattern.DomainFrontend)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	want := Fingerprint(FingerprintText(p))
	if entries[0].Fingerprint != want {
		t.Errorf("stored fingerprint = %d, want %d", entries[0].Fingerprint, want)
	}
}

func TestRebuild_ReplacesIndex(t *testing.T) {
	ix := testIndex(t)
	stale := indexedPattern("old stale pattern", pattern.DomainDatabase,
		"old-stale-pattern", "Obsolete content.\n")
	if err := ix.Upsert(stale); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	fresh := []pattern.Pattern{
		*indexedPattern("create users table", pattern.DomainDatabase,
			"create-users-table", "Migration for the users table.\n"),
	}
	if err := ix.Rebuild(fresh); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	entries, err := ix.Entries("")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Slug != "create-users-table" {
		t.Errorf("entries after rebuild = %+v", entries)
	}

	// FTS stays consistent through the rebuild.
	results, err := ix.Search("stale", 10, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("stale entry still searchable after rebuild: %+v", results)
	}
}

func TestFingerprint_SimilarTextIsClose(t *testing.T) {
	a := Fingerprint("create navigation component for the homepage")
	b := Fingerprint("create navigation component for the dashboard")
	c := Fingerprint("configure postgres database connection pooling")

	if a == 0 || b == 0 {
		t.Fatal("fingerprints should be non-zero for non-empty text")
	}
	near := HammingDistance(a, b)
	far := HammingDistance(a, c)
	if near >= far {
		t.Errorf("similar text distance %d not below dissimilar distance %d", near, far)
	}
}

func TestHammingDistance(t *testing.T) {
	if d := HammingDistance(0, 0); d != 0 {
		t.Errorf("HammingDistance(0,0) = %d", d)
	}
	if d := HammingDistance(0, ^uint64(0)); d != 64 {
		t.Errorf("HammingDistance(0,max) = %d, want 64", d)
	}
	if d := HammingDistance(0b1010, 0b0110); d != 2 {
		t.Errorf("HammingDistance = %d, want 2", d)
	}
}
