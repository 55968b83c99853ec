package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/validate"
)

// ValidateTool handles the pattern_validate MCP tool.
// It runs the validator against a draft without writing anything.
type ValidateTool struct {
	validator *validate.Validator
}

// NewValidateTool creates a ValidateTool with its dependencies.
func NewValidateTool(v *validate.Validator) *ValidateTool {
	return &ValidateTool{validator: v}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("pattern_validate",
		mcp.WithDescription(
			"Validate a pattern draft without storing it. Accepts a full "+
				"pattern file (YAML frontmatter + body) or a bare body with "+
				"metadata passed separately. Returns errors (blocking) and "+
				"warnings (advisory).",
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The pattern draft: a full pattern file or just the body."),
		),
		mcp.WithString("task",
			mcp.Description("Task description, used when content has no frontmatter."),
		),
		mcp.WithNumber("complexity",
			mcp.Description("Complexity 1-5, used when content has no frontmatter."),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags, used when content has no frontmatter."),
		),
		mcp.WithString("dependencies",
			mcp.Description("Comma-separated dependencies, used when content has no frontmatter."),
		),
	)
}

// Handle processes the pattern_validate tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	draft, err := pattern.Parse([]byte(content))
	if err != nil {
		// Bare body: build metadata from the loose arguments.
		draft = &pattern.Pattern{
			Meta: pattern.Metadata{
				Task:         strings.TrimSpace(req.GetString("task", "")),
				Complexity:   req.GetInt("complexity", 0),
				Tags:         splitCSV(req.GetString("tags", "")),
				Dependencies: splitCSV(req.GetString("dependencies", "")),
			},
			Content: content,
		}
	}

	res := t.validator.Validate(draft)
	return mcp.NewToolResultText(formatValidation(res.Valid, res.Errors, res.Warnings)), nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
