package pattern

import (
	"fmt"
	"strings"
)

// NotFoundError reports that no pattern exists for a lookup.
type NotFoundError struct {
	Domain Domain
	Slug   string
}

func (e *NotFoundError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("pattern %q not found in domain %q", e.Slug, e.Domain)
	}
	return fmt.Sprintf("no patterns found in domain %q", e.Domain)
}

// ValidationError reports that a candidate pattern failed one or more
// hard validator checks. It is never partially applied: a pattern that
// produces a ValidationError is not written to the store.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pattern validation failed: %s", strings.Join(e.Errors, "; "))
}
