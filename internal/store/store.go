// Package store implements the filesystem-backed Pattern Store: one
// directory per domain, one markdown file per pattern.
//
// The store is additive. Patterns are never deleted; re-putting a pattern
// with the same task updates it in place (version bump, updated timestamp),
// while a different task colliding on the same slug gets a numeric suffix.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/patternfirst/patternctl/internal/pattern"
)

// Indexer receives derived-index updates when patterns are written.
// The SQLite search index implements this; a nil indexer means the
// store runs without a derived index (it can be rebuilt later).
type Indexer interface {
	Upsert(p *pattern.Pattern) error
}

// Store defines the persistence interface for pattern records.
// Abstracted so tools and the workflow engine depend on the interface.
type Store interface {
	Put(p *pattern.Pattern) (string, error)
	Get(domain pattern.Domain, slug string) (*pattern.Pattern, error)
	GetAll(domain pattern.Domain) ([]pattern.Pattern, error)
}

// FileStore implements Store on the local filesystem.
type FileStore struct {
	root    string
	indexer Indexer
}

// NewFileStore creates a store rooted at the patterns directory
// (one subdirectory per domain is created on demand).
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// SetIndexer attaches a derived search index. Subsequent Put calls
// upsert index entries for the written pattern.
func (fs *FileStore) SetIndexer(idx Indexer) {
	fs.indexer = idx
}

// DomainPath returns the directory for one domain's patterns.
func (fs *FileStore) DomainPath(domain pattern.Domain) string {
	return filepath.Join(fs.root, string(domain))
}

// PatternPath returns the file path for a pattern slug within a domain.
func (fs *FileStore) PatternPath(domain pattern.Domain, slug string) string {
	return filepath.Join(fs.DomainPath(domain), slug+".md")
}

// Put writes a pattern into its domain partition and updates the derived
// index. The content must already have passed validation — that is the
// caller's responsibility (the workflow engine enforces it).
//
// Writes are atomic: the file is written to a temp name in the same
// directory and renamed into place, so concurrent readers never observe
// a partial pattern and concurrent writers cannot interleave bytes.
func (fs *FileStore) Put(p *pattern.Pattern) (string, error) {
	if err := pattern.ValidateDomain(p.Meta.Domain); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Meta.Task) == "" {
		return "", fmt.Errorf("pattern task is empty")
	}

	dir := fs.DomainPath(p.Meta.Domain)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating domain directory: %w", err)
	}

	slug, existing, err := fs.resolveSlot(p.Meta.Domain, p.Meta.Task)
	if err != nil {
		return "", err
	}

	now := timeNow().UTC().Format(timeLayout)
	if existing != nil {
		// Explicit update of the same task: preserve creation time,
		// bump the version.
		p.Meta.Created = existing.Meta.Created
		p.Meta.Version = pattern.BumpPatch(existing.Meta.Version)
	} else {
		p.Meta.Created = now
		p.Meta.Version = pattern.InitialVersion
	}
	p.Meta.Updated = now

	data, err := pattern.Format(p)
	if err != nil {
		return "", err
	}

	path := fs.PatternPath(p.Meta.Domain, slug)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}

	p.Slug = slug
	p.Path = path

	if fs.indexer != nil {
		if err := fs.indexer.Upsert(p); err != nil {
			return path, fmt.Errorf("updating search index: %w", err)
		}
	}

	return path, nil
}

// resolveSlot picks the slug a task will occupy. A slug already taken by
// the same task means update-in-place; taken by a different task means
// a collision, resolved with numeric suffixes like the slug would be for
// a duplicate change.
func (fs *FileStore) resolveSlot(domain pattern.Domain, task string) (string, *pattern.Pattern, error) {
	base := pattern.Slugify(task)
	slug := base
	suffix := 2
	for {
		existing, err := fs.Get(domain, slug)
		if err != nil {
			var nf *pattern.NotFoundError
			if errors.As(err, &nf) {
				return slug, nil, nil
			}
			// Unreadable file occupying the slot: treat as a collision
			// rather than clobbering it.
			slug = fmt.Sprintf("%s-%d", base, suffix)
			suffix++
			continue
		}
		if strings.EqualFold(strings.TrimSpace(existing.Meta.Task), strings.TrimSpace(task)) {
			return slug, existing, nil
		}
		slug = fmt.Sprintf("%s-%d", base, suffix)
		suffix++
	}
}

// Get reads one pattern by domain and slug.
func (fs *FileStore) Get(domain pattern.Domain, slug string) (*pattern.Pattern, error) {
	path := fs.PatternPath(domain, slug)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &pattern.NotFoundError{Domain: domain, Slug: slug}
		}
		return nil, fmt.Errorf("reading pattern %s: %w", path, err)
	}

	p, err := pattern.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing pattern %s: %w", path, err)
	}
	p.Slug = slug
	p.Path = path
	return p, nil
}

// GetAll returns every stored pattern, optionally filtered to one domain.
// It never fails on absence: a missing directory yields an empty slice.
// Unparseable files are skipped. Results are ordered by path, so repeated
// calls over an unchanged store return identical sequences.
func (fs *FileStore) GetAll(domain pattern.Domain) ([]pattern.Pattern, error) {
	domains := pattern.Domains()
	if domain != "" {
		if err := pattern.ValidateDomain(domain); err != nil {
			return nil, err
		}
		domains = []pattern.Domain{domain}
	}

	var result []pattern.Pattern
	for _, d := range domains {
		entries, err := os.ReadDir(fs.DomainPath(d))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading domain directory %s: %w", d, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			slug := strings.TrimSuffix(entry.Name(), ".md")
			p, err := fs.Get(d, slug)
			if err != nil {
				continue // skip unreadable patterns
			}
			result = append(result, *p)
		}
	}
	return result, nil
}

// writeAtomic writes data to path via a temp file and rename, so a
// crash or a concurrent writer never leaves a half-written pattern.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pattern-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing pattern: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting pattern permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming pattern into place: %w", err)
	}
	return nil
}
