package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/store"
)

// ListTool handles the pattern_list MCP tool.
type ListTool struct {
	store store.Store
}

// NewListTool creates a ListTool with its dependencies.
func NewListTool(s store.Store) *ListTool {
	return &ListTool{store: s}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("pattern_list",
		mcp.WithDescription(
			"List every stored pattern grouped by domain. Read-only.",
		),
		mcp.WithString("domain",
			mcp.Description("Optional domain scope: infrastructure, frontend, api or database."),
		),
	)
}

// Handle processes the pattern_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := parseDomain(req.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	all, err := t.store.GetAll(domain)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}

	if len(all) == 0 {
		return mcp.NewToolResultText("The pattern store is empty."), nil
	}

	byDomain := make(map[pattern.Domain][]pattern.Pattern)
	for _, p := range all {
		byDomain[p.Meta.Domain] = append(byDomain[p.Meta.Domain], p)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %d stored pattern(s)\n", len(all))
	for _, d := range pattern.Domains() {
		ps := byDomain[d]
		if len(ps) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s (%d)\n\n", d, len(ps))
		for i := range ps {
			sb.WriteString(formatPatternSummary(&ps[i]) + "\n")
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
