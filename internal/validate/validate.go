// Package validate gatekeeps what may enter the pattern store.
//
// Validation is purely textual and structural. It never executes or
// type-checks the code a pattern embeds; it only rejects patterns that
// are structurally incomplete: missing metadata, bodies below the
// minimum length, or bodies carrying incompleteness markers.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patternfirst/patternctl/internal/config"
	"github.com/patternfirst/patternctl/internal/pattern"
)

// Result is the validation verdict. Errors block acceptance;
// warnings do not.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validator checks patterns against the configured acceptance rules.
type Validator struct {
	minLength     int
	maxComplexity int
}

// New creates a Validator from config thresholds. Non-positive values
// fall back to the defaults.
func New(cfg *config.Config) *Validator {
	minLen := cfg.MinPatternLength
	if minLen <= 0 {
		minLen = config.Default().MinPatternLength
	}
	maxCx := cfg.MaxComplexityWarning
	if maxCx <= 0 {
		maxCx = config.Default().MaxComplexityWarning
	}
	return &Validator{minLength: minLen, maxComplexity: maxCx}
}

// barePass matches a "pass" placeholder standing alone as a statement,
// not the word occurring inside identifiers like "password".
var barePass = regexp.MustCompile(`(?m)^\s*pass\s*$`)

// Validate runs every rule and returns the combined verdict. A pattern
// is valid only when no hard rule fired; warnings are advisory.
func (v *Validator) Validate(p *pattern.Pattern) Result {
	var errs, warns []string

	for _, f := range missingMetadata(&p.Meta) {
		errs = append(errs, "Missing required metadata: "+f)
	}

	body := strings.TrimSpace(p.Content)
	if len(body) < v.minLength {
		errs = append(errs, "Pattern code too short")
	}
	if hasIncompletenessMarker(p.Content) {
		errs = append(errs, "Pattern contains incomplete sections")
	}

	if p.Meta.Complexity > v.maxComplexity {
		warns = append(warns,
			fmt.Sprintf("Pattern complexity %d exceeds recommended max %d",
				p.Meta.Complexity, v.maxComplexity))
	}

	return Result{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// missingMetadata returns the required metadata fields absent from m,
// in a fixed order so the error list is deterministic.
func missingMetadata(m *pattern.Metadata) []string {
	var missing []string
	if strings.TrimSpace(m.Task) == "" {
		missing = append(missing, "task")
	}
	if m.Complexity == 0 {
		missing = append(missing, "complexity")
	}
	if len(m.Tags) == 0 {
		missing = append(missing, "tags")
	}
	if len(m.Dependencies) == 0 {
		missing = append(missing, "dependencies")
	}
	return missing
}

// hasIncompletenessMarker reports whether content carries any of the
// placeholder tokens that disqualify a pattern: a TODO marker, a bare
// ellipsis standing in for omitted code, or a lone "pass" statement.
// An ellipsis inside a comment ("// ..." or "# ...") is narrative,
// not omitted code, and is allowed.
func hasIncompletenessMarker(content string) bool {
	if strings.Contains(content, "TODO") {
		return true
	}
	for _, line := range strings.Split(content, "\n") {
		if lineHasBareEllipsis(line) {
			return true
		}
	}
	return barePass.MatchString(content)
}

// lineHasBareEllipsis checks one line: an ellipsis is bare unless it
// sits after a "//" or "#" comment marker on that same line. A
// comment ellipsis elsewhere in the body must not mask a bare one.
func lineHasBareEllipsis(line string) bool {
	idx := strings.Index(line, "...")
	if idx < 0 {
		return false
	}
	commentAt := len(line)
	if i := strings.Index(line, "//"); i >= 0 {
		commentAt = i
	}
	if i := strings.Index(line, "#"); i >= 0 && i < commentAt {
		commentAt = i
	}
	return idx < commentAt
}
