// Package index implements the derived search index for the pattern store.
//
// It uses SQLite with an FTS5 full-text table for candidate recall and a
// 64-bit simhash fingerprint per pattern for similarity ranking. The index
// is always derived state: the markdown files in the store are authoritative,
// and Rebuild regenerates the whole database from them.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/patternfirst/patternctl/internal/pattern"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one indexed pattern row.
type Entry struct {
	Domain      pattern.Domain `json:"domain"`
	Slug        string         `json:"slug"`
	Task        string         `json:"task"`
	Tags        string         `json:"tags"`
	Fingerprint uint64         `json:"fingerprint"`
	UpdatedAt   string         `json:"updated_at"`
}

// SearchResult is an Entry with its FTS5 rank score.
type SearchResult struct {
	Entry
	Rank float64 `json:"rank"`
}

// Index is the SQLite-backed derived search index.
type Index struct {
	db   *sql.DB
	path string
}

// Open creates or opens the index database at path, applying the same
// pragmas and non-destructive migration style as any of our SQLite stores.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("index: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("index: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("index: pragma %q: %w", p, err)
		}
	}

	ix := &Index{db: db, path: path}
	if err := ix.migrate(); err != nil {
		return nil, fmt.Errorf("index: migration: %w", err)
	}
	return ix, nil
}

// Close closes the underlying database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS patterns (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			domain      TEXT    NOT NULL,
			slug        TEXT    NOT NULL,
			task        TEXT    NOT NULL,
			tags        TEXT    NOT NULL DEFAULT '',
			content     TEXT    NOT NULL,
			fingerprint INTEGER NOT NULL DEFAULT 0,
			updated_at  TEXT    NOT NULL DEFAULT (datetime('now')),
			UNIQUE (domain, slug)
		);

		CREATE INDEX IF NOT EXISTS idx_patterns_domain ON patterns(domain);

		CREATE VIRTUAL TABLE IF NOT EXISTS patterns_fts USING fts5(
			task,
			tags,
			content,
			content='patterns',
			content_rowid='id'
		);
	`
	if _, err := ix.db.Exec(schema); err != nil {
		return err
	}

	// FTS triggers (idempotent).
	var name string
	err := ix.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='patterns_fts_insert'",
	).Scan(&name)

	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER patterns_fts_insert AFTER INSERT ON patterns BEGIN
				INSERT INTO patterns_fts(rowid, task, tags, content)
				VALUES (new.id, new.task, new.tags, new.content);
			END;

			CREATE TRIGGER patterns_fts_delete AFTER DELETE ON patterns BEGIN
				INSERT INTO patterns_fts(patterns_fts, rowid, task, tags, content)
				VALUES ('delete', old.id, old.task, old.tags, old.content);
			END;

			CREATE TRIGGER patterns_fts_update AFTER UPDATE ON patterns BEGIN
				INSERT INTO patterns_fts(patterns_fts, rowid, task, tags, content)
				VALUES ('delete', old.id, old.task, old.tags, old.content);
				INSERT INTO patterns_fts(rowid, task, tags, content)
				VALUES (new.id, new.task, new.tags, new.content);
			END;
		`
		if _, err := ix.db.Exec(triggers); err != nil {
			return err
		}
	} else if err != nil && err != sql.ErrNoRows {
		return err
	}

	return nil
}

// Upsert writes or refreshes the index entry for one pattern.
// Implements the store's Indexer interface.
func (ix *Index) Upsert(p *pattern.Pattern) error {
	fp := Fingerprint(FingerprintText(p))
	tags := strings.Join(p.Meta.Tags, " ")

	_, err := ix.db.Exec(`
		INSERT INTO patterns (domain, slug, task, tags, content, fingerprint, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT (domain, slug) DO UPDATE SET
			task = excluded.task,
			tags = excluded.tags,
			content = excluded.content,
			fingerprint = excluded.fingerprint,
			updated_at = datetime('now')`,
		string(p.Meta.Domain), p.Slug, p.Meta.Task, tags, p.Content, int64(fp),
	)
	if err != nil {
		return fmt.Errorf("index: upsert %s/%s: %w", p.Meta.Domain, p.Slug, err)
	}
	return nil
}

// Search runs an FTS5 query, optionally scoped to one domain, ordered by
// rank. An empty or unmatchable query returns an empty slice, not an error.
func (ix *Index) Search(query string, limit int, domain pattern.Domain) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return nil, nil
	}

	sqlStr := `
		SELECT p.domain, p.slug, p.task, p.tags, p.fingerprint, p.updated_at, fts.rank
		FROM patterns_fts fts
		JOIN patterns p ON p.id = fts.rowid
		WHERE patterns_fts MATCH ?
	`
	args := []any{ftsQuery}

	if domain != "" {
		sqlStr += " AND p.domain = ?"
		args = append(args, string(domain))
	}

	sqlStr += " ORDER BY fts.rank LIMIT ?"
	args = append(args, limit)

	rows, err := ix.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var sr SearchResult
		var fp int64
		if err := rows.Scan(&sr.Domain, &sr.Slug, &sr.Task, &sr.Tags, &fp, &sr.UpdatedAt, &sr.Rank); err != nil {
			return nil, err
		}
		sr.Fingerprint = uint64(fp)
		results = append(results, sr)
	}
	return results, rows.Err()
}

// Entries returns every indexed entry, optionally scoped to one domain,
// in deterministic (domain, slug) order. Used by the simhash matcher
// when FTS recall comes up empty.
func (ix *Index) Entries(domain pattern.Domain) ([]Entry, error) {
	sqlStr := `SELECT domain, slug, task, tags, fingerprint, updated_at FROM patterns`
	args := []any{}
	if domain != "" {
		sqlStr += " WHERE domain = ?"
		args = append(args, string(domain))
	}
	sqlStr += " ORDER BY domain, slug"

	rows, err := ix.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("index: entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Entry
	for rows.Next() {
		var e Entry
		var fp int64
		if err := rows.Scan(&e.Domain, &e.Slug, &e.Task, &e.Tags, &fp, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Fingerprint = uint64(fp)
		results = append(results, e)
	}
	return results, rows.Err()
}

// Count returns the number of indexed patterns.
func (ix *Index) Count() (int, error) {
	var n int
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM patterns`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// Rebuild replaces the entire index with entries derived from the given
// patterns. Runs in one transaction so readers never see a half-built index.
func (ix *Index) Rebuild(patterns []pattern.Pattern) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("index: rebuild begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM patterns`); err != nil {
		return fmt.Errorf("index: rebuild clear: %w", err)
	}

	for i := range patterns {
		p := &patterns[i]
		fp := Fingerprint(FingerprintText(p))
		tags := strings.Join(p.Meta.Tags, " ")
		if _, err := tx.Exec(`
			INSERT INTO patterns (domain, slug, task, tags, content, fingerprint, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, datetime('now'))`,
			string(p.Meta.Domain), p.Slug, p.Meta.Task, tags, p.Content, int64(fp),
		); err != nil {
			return fmt.Errorf("index: rebuild insert %s/%s: %w", p.Meta.Domain, p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index: rebuild commit: %w", err)
	}
	return nil
}

// sanitizeFTS turns free text into a safe FTS5 query: each token is
// double-quoted so punctuation can't be parsed as FTS syntax. Tokens are
// OR-ed for recall — ranking sorts the best match first anyway.
func sanitizeFTS(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}
