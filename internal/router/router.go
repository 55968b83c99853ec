// Package router maps free-text task descriptions to a pattern domain.
//
// Routing is a pure keyword lookup: domains are scanned in a fixed
// priority order and the first domain with a keyword hit wins, so the
// same task always routes to the same domain. Tasks matching nothing
// fall back to a configured default.
package router

import (
	"strings"

	"github.com/patternfirst/patternctl/internal/pattern"
)

// domainKeywords is the trigger table. Order in priorityOrder below
// decides ties: a task mentioning both "setup" and "component" is an
// infrastructure task first.
var domainKeywords = map[pattern.Domain][]string{
	pattern.DomainInfrastructure: {
		"setup", "install", "deploy", "config", "build",
		"nextjs", "next.js", "project", "docker", "pipeline",
	},
	pattern.DomainAPI: {
		"endpoint", "api", "rest", "graphql", "middleware",
		"handler", "auth",
	},
	pattern.DomainDatabase: {
		"database", "migration", "schema", "query", "sql",
		"table", "postgres", "sqlite",
	},
	pattern.DomainFrontend: {
		"component", "ui", "button", "form", "layout",
		"page", "homepage", "navigation",
	},
}

// priorityOrder fixes the tie-break between domains. Infrastructure
// outranks everything: "setup the api project" is a setup task.
var priorityOrder = []pattern.Domain{
	pattern.DomainInfrastructure,
	pattern.DomainAPI,
	pattern.DomainDatabase,
	pattern.DomainFrontend,
}

// Router selects the pattern domain for a task description.
type Router struct {
	defaultDomain pattern.Domain
}

// New creates a Router that falls back to defaultDomain when no
// keyword matches. An invalid or empty default falls back to frontend.
func New(defaultDomain pattern.Domain) *Router {
	if pattern.ValidateDomain(defaultDomain) != nil {
		defaultDomain = pattern.DomainFrontend
	}
	return &Router{defaultDomain: defaultDomain}
}

// Route returns the domain for a task description. It always returns
// a valid domain.
func (r *Router) Route(task string) pattern.Domain {
	lower := strings.ToLower(task)
	for _, d := range priorityOrder {
		for _, kw := range domainKeywords[d] {
			if strings.Contains(lower, kw) {
				return d
			}
		}
	}
	return r.defaultDomain
}

// Keywords returns the trigger keywords for one domain. Used by the
// instructions tooling to explain routing decisions.
func Keywords(domain pattern.Domain) []string {
	kws := domainKeywords[domain]
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}
