// Package pattern defines the core Pattern record: a reusable, validated
// solution stored as a markdown file with YAML frontmatter.
//
// A pattern belongs to exactly one domain and is identified within that
// domain by a filesystem-safe slug derived from its task description.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// --- Domain enum ---

// Domain is a fixed category partitioning the pattern collection.
type Domain string

const (
	DomainInfrastructure Domain = "infrastructure"
	DomainFrontend       Domain = "frontend"
	DomainAPI            Domain = "api"
	DomainDatabase       Domain = "database"
)

// validDomains is the closed set of allowed domains.
var validDomains = map[Domain]bool{
	DomainInfrastructure: true,
	DomainFrontend:       true,
	DomainAPI:            true,
	DomainDatabase:       true,
}

// ValidateDomain returns an error if the domain is not recognized.
func ValidateDomain(d Domain) error {
	if !validDomains[d] {
		return fmt.Errorf("invalid domain %q: must be one of: infrastructure, frontend, api, database", d)
	}
	return nil
}

// Domains returns every known domain. The order here is enumeration
// order only — routing priority lives in the router package.
func Domains() []Domain {
	return []Domain{DomainInfrastructure, DomainFrontend, DomainAPI, DomainDatabase}
}

// --- Core data structures ---

// Metadata is the fixed-field frontmatter header of a pattern file.
type Metadata struct {
	Task         string   `yaml:"task" json:"task"`
	Domain       Domain   `yaml:"domain" json:"domain"`
	Complexity   int      `yaml:"complexity" json:"complexity"`
	Tags         []string `yaml:"tags" json:"tags"`
	Dependencies []string `yaml:"dependencies" json:"dependencies"`
	TechStack    []string `yaml:"tech_stack,omitempty" json:"tech_stack,omitempty"`
	Language     string   `yaml:"language,omitempty" json:"language,omitempty"`
	ManualSteps  bool     `yaml:"manual_steps,omitempty" json:"manual_steps,omitempty"`
	Version      string   `yaml:"version" json:"version"`
	Created      string   `yaml:"created" json:"created"`
	Updated      string   `yaml:"updated" json:"updated"`
}

// Pattern is a stored, validated, reusable solution record.
type Pattern struct {
	Meta    Metadata `json:"meta"`
	Content string   `json:"content"` // free-text body after the frontmatter

	// Slug and Path are set when a pattern is loaded from or written to
	// the store. They are derived state, not part of the file format.
	Slug string `json:"slug,omitempty"`
	Path string `json:"path,omitempty"`
}

// InitialVersion is the version assigned to a freshly accepted pattern.
const InitialVersion = "1.0.0"

// BumpPatch increments the patch component of a semver-style version
// string. Unparseable versions reset to the initial version — a pattern
// file hand-edited into a bad version shouldn't wedge updates.
func BumpPatch(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return InitialVersion
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return InitialVersion
	}
	return fmt.Sprintf("%s.%s.%d", parts[0], parts[1], patch+1)
}

// --- Slug generation ---

const maxSlugLen = 50

// Slugify converts a task description into a filesystem-safe slug.
// Example: "Create navigation component" → "create-navigation-component"
//
// Rules:
//   - Lowercase
//   - Spaces and underscores become hyphens
//   - Non-alphanumeric characters (except hyphens) are removed
//   - Consecutive hyphens are collapsed
//   - Leading/trailing hyphens are trimmed
//   - Truncated to 50 characters (at a word boundary if possible)
//   - Empty input returns "unnamed-pattern"
func Slugify(task string) string {
	if strings.TrimSpace(task) == "" {
		return "unnamed-pattern"
	}

	s := strings.ToLower(strings.TrimSpace(task))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")

	if slug == "" {
		return "unnamed-pattern"
	}

	if len(slug) <= maxSlugLen {
		return slug
	}

	// Truncate at word boundary if possible.
	truncated := slug[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}

	return strings.TrimRight(truncated, "-")
}

// Truncate shortens s to max bytes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
