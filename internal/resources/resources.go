// Package resources implements MCP resource handlers for the pattern
// store.
//
// Resources provide read-only data the host can consume for context.
// They use URI-based addressing (pattern://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/store"
)

// defaultPhilosophy is served when no philosophy file exists yet.
const defaultPhilosophy = `# Pattern-First Philosophy

Code is only generated from stored, validated patterns. When no pattern
covers a task, a new one is drafted, validated and stored before any
code derives from it. Rejected drafts never enter the store.
`

// Handler manages pattern resource endpoints.
type Handler struct {
	store          store.Store
	philosophyPath string
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(s store.Store, philosophyPath string) *Handler {
	return &Handler{store: s, philosophyPath: philosophyPath}
}

// PhilosophyResource returns the MCP resource definition for the
// philosophy document.
func (h *Handler) PhilosophyResource() mcp.Resource {
	return mcp.NewResource(
		"pattern://philosophy",
		"Pattern-First Philosophy",
		mcp.WithResourceDescription("The constraints every generated pattern must honor"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandlePhilosophy serves the philosophy markdown.
func (h *Handler) HandlePhilosophy(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text := defaultPhilosophy
	if h.philosophyPath != "" {
		if data, err := os.ReadFile(h.philosophyPath); err == nil {
			text = string(data)
		}
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

// catalogEntry is one pattern in the catalog resource.
type catalogEntry struct {
	Domain     pattern.Domain `json:"domain"`
	Slug       string         `json:"slug"`
	Task       string         `json:"task"`
	Complexity int            `json:"complexity"`
	Tags       []string       `json:"tags"`
	Version    string         `json:"version"`
	Updated    string         `json:"updated"`
}

// CatalogResource returns the MCP resource definition for the pattern
// catalog.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		"pattern://catalog",
		"Pattern Catalog",
		mcp.WithResourceDescription("Every stored pattern with its metadata, grouped by domain"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalog serves the catalog as JSON.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	all, err := h.store.GetAll("")
	if err != nil {
		return nil, fmt.Errorf("reading pattern store: %w", err)
	}

	catalog := struct {
		Total    int                              `json:"total"`
		Patterns map[pattern.Domain][]catalogEntry `json:"patterns"`
	}{
		Total:    len(all),
		Patterns: make(map[pattern.Domain][]catalogEntry),
	}
	for _, p := range all {
		catalog.Patterns[p.Meta.Domain] = append(catalog.Patterns[p.Meta.Domain], catalogEntry{
			Domain:     p.Meta.Domain,
			Slug:       p.Slug,
			Task:       p.Meta.Task,
			Complexity: p.Meta.Complexity,
			Tags:       p.Meta.Tags,
			Version:    p.Meta.Version,
			Updated:    p.Meta.Updated,
		})
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
