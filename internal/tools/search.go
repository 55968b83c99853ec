package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patternfirst/patternctl/internal/match"
)

// SearchTool handles the pattern_search MCP tool.
type SearchTool struct {
	matcher      match.Matcher
	defaultLimit int
}

// NewSearchTool creates a SearchTool with its dependencies.
func NewSearchTool(matcher match.Matcher, defaultLimit int) *SearchTool {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &SearchTool{matcher: matcher, defaultLimit: defaultLimit}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("pattern_search",
		mcp.WithDescription(
			"Search stored patterns by free text, most relevant first. "+
				"Read-only: never modifies the store.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text, e.g. 'navigation'."),
		),
		mcp.WithString("domain",
			mcp.Description("Optional domain scope: infrastructure, frontend, api or database."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results."),
		),
	)
}

// Handle processes the pattern_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	domain, err := parseDomain(req.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := req.GetInt("limit", t.defaultLimit)

	results, err := t.matcher.Search(query, limit, domain)
	if err != nil {
		return nil, fmt.Errorf("searching patterns: %w", err)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No patterns match %q. Use pattern_generate to create one.", query)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %d pattern(s) for %q\n\n", len(results), query)
	for i := range results {
		sb.WriteString(formatPatternSummary(&results[i]) + "\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
