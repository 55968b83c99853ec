// Package prompts implements MCP prompt handlers for the pattern-first
// workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the pattern-start MCP prompt.
// It guides the AI through the pattern-first flow for one task.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("pattern-start",
		mcp.WithPromptDescription(
			"Work on a task pattern-first: search the stored patterns, "+
				"reuse the best match, and only create a new validated "+
				"pattern when nothing fits.",
		),
		mcp.WithArgument("task",
			mcp.ArgumentDescription("The task to work on, e.g. 'create navigation component'"),
		),
	)
}

// Handle processes the pattern-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	task := "my task"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["task"]; ok && v != "" {
			task = v
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Pattern-first flow for: %s", task),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to work on '%s' pattern-first.\n\n"+
						"Please:\n"+
						"1. Read `pattern_instructions` so you follow the store's constraints\n"+
						"2. Run `pattern_search` with my task to find an existing pattern\n"+
						"3. If one matches, apply it as-is — it was validated at creation\n"+
						"4. If nothing matches, run `pattern_generate` to draft, validate and store a new pattern\n"+
						"5. If the draft is rejected, show me the validator errors and help me fix them\n",
					task,
				)),
			},
		},
	}, nil
}
