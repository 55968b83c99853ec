package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patternfirst/patternctl/internal/workflow"
)

// GenerateTool handles the pattern_generate MCP tool.
// It runs the full pattern-first flow for a task: route, search,
// reuse or create-and-validate.
type GenerateTool struct {
	engine *workflow.Engine
}

// NewGenerateTool creates a GenerateTool with its dependencies.
func NewGenerateTool(engine *workflow.Engine) *GenerateTool {
	return &GenerateTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool("pattern_generate",
		mcp.WithDescription(
			"Run the pattern-first flow for a task. Routes the task to a "+
				"domain, searches stored patterns and reuses the best match. "+
				"When nothing matches, a new pattern is drafted, validated "+
				"and — only if valid — stored. Rejected drafts are never written.",
		),
		mcp.WithString("task",
			mcp.Required(),
			mcp.Description("Free-text description of the task, e.g. 'create navigation component'."),
		),
	)
}

// Handle processes the pattern_generate tool call.
func (t *GenerateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task := strings.TrimSpace(req.GetString("task", ""))
	if task == "" {
		return mcp.NewToolResultError("task is required"), nil
	}

	res, err := t.engine.Run(ctx, task)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Task: %s\n\n", res.Task)
	fmt.Fprintf(&sb, "**Domain:** %s\n", res.Domain)
	fmt.Fprintf(&sb, "**Run:** %s\n\n", res.RunID)

	switch {
	case res.Reused:
		fmt.Fprintf(&sb, "Reused stored pattern `%s/%s` (version %s).\n\n",
			res.Pattern.Meta.Domain, res.Pattern.Slug, res.Pattern.Meta.Version)
		sb.WriteString("## Pattern\n\n")
		sb.WriteString(res.Pattern.Content)
	case res.State() == workflow.StateRejected:
		sb.WriteString(formatValidation(false, res.Validation.Errors, res.Validation.Warnings))
		sb.WriteString("\nNothing was written to the store. Fix the draft and retry, ")
		sb.WriteString("or create the pattern manually with create-pattern.\n")
	default:
		fmt.Fprintf(&sb, "Created and stored new pattern `%s/%s`.\n\n",
			res.Pattern.Meta.Domain, res.Pattern.Slug)
		if len(res.Validation.Warnings) > 0 {
			sb.WriteString(formatValidation(true, nil, res.Validation.Warnings))
			sb.WriteString("\n")
		}
		sb.WriteString("## Pattern\n\n")
		sb.WriteString(res.Pattern.Content)
	}

	return mcp.NewToolResultText(sb.String()), nil
}
