// Package tools implements the MCP tools exposing the pattern-first
// workflow: generate, search, list, validate and instructions.
//
// Tools are thin adapters: they parse MCP arguments, call the domain
// packages and format results. No pattern logic lives here.
package tools

import (
	"fmt"
	"strings"

	"github.com/patternfirst/patternctl/internal/pattern"
)

// parseDomain validates an optional domain argument. Empty input means
// "all domains" and is returned as-is.
func parseDomain(raw string) (pattern.Domain, error) {
	if raw == "" {
		return "", nil
	}
	d := pattern.Domain(strings.ToLower(strings.TrimSpace(raw)))
	if err := pattern.ValidateDomain(d); err != nil {
		return "", err
	}
	return d, nil
}

// formatPatternSummary renders one pattern as a list entry.
func formatPatternSummary(p *pattern.Pattern) string {
	return fmt.Sprintf("- **%s** (`%s/%s`) complexity %d, tags: %s",
		p.Meta.Task, p.Meta.Domain, p.Slug, p.Meta.Complexity,
		strings.Join(p.Meta.Tags, ", "))
}

// formatValidation renders a validation verdict as markdown.
func formatValidation(valid bool, errs, warns []string) string {
	var sb strings.Builder
	if valid {
		sb.WriteString("**Valid** — the pattern may enter the store.\n")
	} else {
		sb.WriteString("**Invalid** — the pattern was not accepted.\n")
	}
	if len(errs) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range errs {
			sb.WriteString("- " + e + "\n")
		}
	}
	if len(warns) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range warns {
			sb.WriteString("- " + w + "\n")
		}
	}
	return sb.String()
}
