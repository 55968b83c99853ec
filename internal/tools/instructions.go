package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/store"
	"github.com/patternfirst/patternctl/internal/templates"
)

// InstructionsTool handles the pattern_instructions MCP tool.
// It renders the pattern-first working instructions, including the
// philosophy text when one is configured.
type InstructionsTool struct {
	store          store.Store
	renderer       templates.Renderer
	philosophyPath string
}

// NewInstructionsTool creates an InstructionsTool with its dependencies.
func NewInstructionsTool(s store.Store, r templates.Renderer, philosophyPath string) *InstructionsTool {
	return &InstructionsTool{store: s, renderer: r, philosophyPath: philosophyPath}
}

// Definition returns the MCP tool definition for registration.
func (t *InstructionsTool) Definition() mcp.Tool {
	return mcp.NewTool("pattern_instructions",
		mcp.WithDescription(
			"Get the pattern-first working instructions: the domains, the "+
				"search-before-create rule and the philosophy the store enforces.",
		),
	)
}

// Handle processes the pattern_instructions tool call.
func (t *InstructionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := t.store.GetAll("")
	if err != nil {
		return nil, fmt.Errorf("counting patterns: %w", err)
	}

	philosophy := ""
	if t.philosophyPath != "" {
		if data, err := os.ReadFile(t.philosophyPath); err == nil {
			philosophy = string(data)
		}
	}

	domains := make([]string, 0, len(pattern.Domains()))
	for _, d := range pattern.Domains() {
		domains = append(domains, string(d))
	}

	text, err := t.renderer.Render(templates.Instructions, templates.InstructionsData{
		Domains:      domains,
		PatternCount: len(all),
		Philosophy:   philosophy,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering instructions: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}
