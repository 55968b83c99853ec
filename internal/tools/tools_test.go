package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patternfirst/patternctl/internal/config"
	"github.com/patternfirst/patternctl/internal/genai"
	"github.com/patternfirst/patternctl/internal/match"
	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/router"
	"github.com/patternfirst/patternctl/internal/store"
	"github.com/patternfirst/patternctl/internal/templates"
	"github.com/patternfirst/patternctl/internal/validate"
	"github.com/patternfirst/patternctl/internal/workflow"
)

// --- Test helpers ---

type fixedBackend struct{ body string }

func (f fixedBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return f.body, nil
}

const generatedBody = "## Description\n\nA complete solution body with enough detail to pass every gate.\n"

func setupEngine(t *testing.T, backend genai.Backend) (*workflow.Engine, *store.FileStore) {
	t.Helper()
	cfg := config.Default()
	fs := store.NewFileStore(t.TempDir())
	engine := workflow.NewEngine(
		router.New(pattern.DomainFrontend),
		match.NewSubstring(fs),
		validate.New(&cfg),
		fs,
		backend,
		workflow.Options{},
	)
	return engine, fs
}

func seedPattern(t *testing.T, fs *store.FileStore, task string, domain pattern.Domain) {
	t.Helper()
	p := &pattern.Pattern{
		Meta: pattern.Metadata{
			Task:         task,
			Domain:       domain,
			Complexity:   2,
			Tags:         []string{"seed"},
			Dependencies: []string{"none"},
		},
		Content: "## Description\n\nStored, previously validated solution content for reuse.\n",
	}
	if _, err := fs.Put(p); err != nil {
		t.Fatalf("seed Put failed: %v", err)
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- GenerateTool ---

func TestGenerateTool_ReusesStoredPattern(t *testing.T) {
	engine, fs := setupEngine(t, fixedBackend{body: generatedBody})
	seedPattern(t, fs, "create navigation component", pattern.DomainFrontend)
	tool := NewGenerateTool(engine)

	result, err := tool.Handle(context.Background(),
		callRequest(map[string]interface{}{"task": "create navigation component"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "Reused stored pattern") {
		t.Errorf("result should report reuse, got: %s", text)
	}
	if !strings.Contains(text, "frontend/create-navigation-component") {
		t.Errorf("result should name the pattern slot, got: %s", text)
	}
}

func TestGenerateTool_CreatesWhenNoMatch(t *testing.T) {
	engine, fs := setupEngine(t, fixedBackend{body: generatedBody})
	tool := NewGenerateTool(engine)

	result, err := tool.Handle(context.Background(),
		callRequest(map[string]interface{}{"task": "setup nextjs project"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "Created and stored new pattern") {
		t.Errorf("result should report creation, got: %s", text)
	}
	if _, err := fs.Get(pattern.DomainInfrastructure, "setup-nextjs-project"); err != nil {
		t.Errorf("created pattern not stored: %v", err)
	}
}

func TestGenerateTool_RejectionLeavesStoreEmpty(t *testing.T) {
	engine, fs := setupEngine(t, fixedBackend{body: "TODO: finish this\n"})
	tool := NewGenerateTool(engine)

	result, err := tool.Handle(context.Background(),
		callRequest(map[string]interface{}{"task": "setup nextjs project"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "Invalid") {
		t.Errorf("result should report rejection, got: %s", text)
	}
	if !strings.Contains(text, "Pattern contains incomplete sections") {
		t.Errorf("result should carry the validator errors, got: %s", text)
	}

	all, err := fs.GetAll("")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("store holds %d patterns after rejection", len(all))
	}
}

func TestGenerateTool_MissingTask(t *testing.T) {
	engine, _ := setupEngine(t, fixedBackend{body: generatedBody})
	tool := NewGenerateTool(engine)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("missing task should be a tool error")
	}
}

// --- SearchTool ---

func TestSearchTool_FindsPattern(t *testing.T) {
	_, fs := setupEngine(t, fixedBackend{})
	seedPattern(t, fs, "create navigation component", pattern.DomainFrontend)
	tool := NewSearchTool(match.NewSubstring(fs), 10)

	result, err := tool.Handle(context.Background(),
		callRequest(map[string]interface{}{"query": "navigation", "domain": "frontend"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "create navigation component") {
		t.Errorf("result missing the matching pattern: %s", text)
	}
	if !strings.Contains(text, "1 pattern(s)") {
		t.Errorf("result should report one match: %s", text)
	}
}

func TestSearchTool_NoMatches(t *testing.T) {
	_, fs := setupEngine(t, fixedBackend{})
	tool := NewSearchTool(match.NewSubstring(fs), 10)

	result, err := tool.Handle(context.Background(),
		callRequest(map[string]interface{}{"query": "kubernetes"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatal("no matches must not be a tool error")
	}
	if !strings.Contains(getResultText(result), "No patterns match") {
		t.Errorf("result = %s", getResultText(result))
	}
}

func TestSearchTool_RejectsUnknownDomain(t *testing.T) {
	_, fs := setupEngine(t, fixedBackend{})
	tool := NewSearchTool(match.NewSubstring(fs), 10)

	result, err := tool.Handle(context.Background(),
		callRequest(map[string]interface{}{"query": "x", "domain": "frontend_ui"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("unknown domain should be a tool error")
	}
}

// --- ListTool ---

func TestListTool_GroupsByDomain(t *testing.T) {
	_, fs := setupEngine(t, fixedBackend{})
	seedPattern(t, fs, "create navigation component", pattern.DomainFrontend)
	seedPattern(t, fs, "create users migration", pattern.DomainDatabase)
	tool := NewListTool(fs)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	for _, want := range []string{"2 stored pattern(s)", "## frontend (1)", "## database (1)"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q: %s", want, text)
		}
	}
}

func TestListTool_EmptyStore(t *testing.T) {
	_, fs := setupEngine(t, fixedBackend{})
	tool := NewListTool(fs)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "empty") {
		t.Errorf("result = %s", getResultText(result))
	}
}

// --- ValidateTool ---

func TestValidateTool_BareBodyWithArgs(t *testing.T) {
	cfg := config.Default()
	tool := NewValidateTool(validate.New(&cfg))

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"content":      generatedBody,
		"task":         "create navigation component",
		"complexity":   3,
		"tags":         "navigation, react",
		"dependencies": "react",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "**Valid**") {
		t.Errorf("result = %s", getResultText(result))
	}
}

func TestValidateTool_ReportsErrors(t *testing.T) {
	cfg := config.Default()
	tool := NewValidateTool(validate.New(&cfg))

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"content": "too short",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "**Invalid**") {
		t.Errorf("result = %s", text)
	}
	for _, want := range []string{"Pattern code too short", "Missing required metadata: task"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q: %s", want, text)
		}
	}
}

// --- InstructionsTool ---

func TestInstructionsTool_RendersCountAndDomains(t *testing.T) {
	_, fs := setupEngine(t, fixedBackend{})
	seedPattern(t, fs, "create navigation component", pattern.DomainFrontend)

	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	tool := NewInstructionsTool(fs, renderer, "")

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	for _, want := range []string{"infrastructure", "frontend", "api", "database", "holds 1 pattern"} {
		if !strings.Contains(text, want) {
			t.Errorf("instructions missing %q: %s", want, text)
		}
	}
}
