package match

import (
	"github.com/patternfirst/patternctl/internal/index"
	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/store"
)

// recallLimit bounds how many FTS candidates are pulled before
// similarity ranking. Generous on purpose: ranking is cheap.
const recallLimit = 200

// Simhash is the index-backed strategy: FTS5 recalls candidates that
// share at least one query token, then candidates are ranked by the
// Hamming distance between the query fingerprint and each stored
// pattern fingerprint. Only candidates at or under the cutoff count
// as matches.
type Simhash struct {
	store  store.Store
	index  *index.Index
	cutoff int
}

// NewSimhash creates the similarity matcher. cutoff is the maximum
// Hamming distance (0–64) still considered a match; values outside
// that range fall back to 24.
func NewSimhash(s store.Store, ix *index.Index, cutoff int) *Simhash {
	if cutoff <= 0 || cutoff > 64 {
		cutoff = 24
	}
	return &Simhash{store: s, index: ix, cutoff: cutoff}
}

// Search implements Matcher.
func (m *Simhash) Search(query string, limit int, domain pattern.Domain) ([]pattern.Pattern, error) {
	if limit <= 0 {
		return nil, nil
	}

	entries, err := m.candidates(query, domain)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	queryFP := index.Fingerprint(query)
	var rs []ranked
	for _, e := range entries {
		d := index.HammingDistance(queryFP, e.Fingerprint)
		if d <= m.cutoff {
			rs = append(rs, ranked{domain: e.Domain, slug: e.Slug, distance: d})
		}
	}
	sortRanked(rs)

	var result []pattern.Pattern
	for _, r := range rs {
		p, err := m.store.Get(r.domain, r.slug)
		if err != nil {
			continue // index entry stale against the store; skip
		}
		result = append(result, *p)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// candidates recalls index entries via FTS; when no query token hits
// the full-text index, it degrades to scanning every entry in scope so
// near-miss wordings still rank.
func (m *Simhash) candidates(query string, domain pattern.Domain) ([]index.Entry, error) {
	hits, err := m.index.Search(query, recallLimit, domain)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		entries := make([]index.Entry, len(hits))
		for i, h := range hits {
			entries[i] = h.Entry
		}
		return entries, nil
	}
	return m.index.Entries(domain)
}
