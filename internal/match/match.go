// Package match turns a free-text task description into a ranked list
// of candidate patterns.
//
// Two strategies are available, selected by config:
//
//   - substring: case-insensitive substring scan over the pattern files
//     themselves. Deterministic, no index required.
//   - simhash: similarity ranking over 64-bit fingerprints held in the
//     derived SQLite index, with FTS5 candidate recall.
//
// Both satisfy Matcher and both return an empty slice, never an error,
// when nothing matches.
package match

import (
	"sort"
	"strings"

	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/store"
)

// Matcher maps a query to an ordered list of patterns, most relevant
// first. domain scopes the search; empty means all domains.
type Matcher interface {
	Search(query string, limit int, domain pattern.Domain) ([]pattern.Pattern, error)
}

// Substring is the store-scan strategy: a pattern matches when the
// lowercased query appears in its lowercased task or content. Results
// keep the store's deterministic path order.
type Substring struct {
	store store.Store
}

// NewSubstring creates the substring matcher over a pattern store.
func NewSubstring(s store.Store) *Substring {
	return &Substring{store: s}
}

// Search implements Matcher.
func (m *Substring) Search(query string, limit int, domain pattern.Domain) ([]pattern.Pattern, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil, nil
	}

	all, err := m.store.GetAll(domain)
	if err != nil {
		return nil, err
	}

	var matched []pattern.Pattern
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Meta.Task), query) ||
			strings.Contains(strings.ToLower(p.Content), query) {
			matched = append(matched, p)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

// ranked pairs a pattern reference with its similarity distance.
type ranked struct {
	domain   pattern.Domain
	slug     string
	distance int
}

// sortRanked orders by ascending distance, breaking ties by slug so
// repeated searches over an unchanged store return identical results.
func sortRanked(rs []ranked) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].distance != rs[j].distance {
			return rs[i].distance < rs[j].distance
		}
		if rs[i].domain != rs[j].domain {
			return rs[i].domain < rs[j].domain
		}
		return rs[i].slug < rs[j].slug
	})
}
