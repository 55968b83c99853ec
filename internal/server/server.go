// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No pattern logic lives here — only wiring.
package server

import (
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/patternfirst/patternctl/internal/config"
	"github.com/patternfirst/patternctl/internal/genai"
	"github.com/patternfirst/patternctl/internal/index"
	"github.com/patternfirst/patternctl/internal/match"
	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/prompts"
	"github.com/patternfirst/patternctl/internal/resources"
	"github.com/patternfirst/patternctl/internal/router"
	"github.com/patternfirst/patternctl/internal/store"
	"github.com/patternfirst/patternctl/internal/templates"
	"github.com/patternfirst/patternctl/internal/tools"
	"github.com/patternfirst/patternctl/internal/validate"
	"github.com/patternfirst/patternctl/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the search index database and
// must be called on shutdown (typically via defer). It is always
// non-nil and safe to call even if index init failed.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	fileStore := store.NewFileStore(cfg.PatternsRoot)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	// The derived index is an independent subsystem: if it fails to
	// initialize, search degrades to the substring scan and the server
	// keeps working against the pattern files.
	cleanup := noop
	ix, ixErr := index.Open(cfg.IndexPath())
	if ixErr != nil {
		log.Printf("WARNING: search index disabled: %v", ixErr)
		ix = nil
	} else {
		fileStore.SetIndexer(ix)
		cleanup = func() {
			if err := ix.Close(); err != nil {
				log.Printf("WARNING: search index close: %v", err)
			}
		}
	}

	matcher := match.ForConfig(cfg, fileStore, ix)
	validator := validate.New(cfg)
	backend := genai.NewWithRetry(genai.NewCommand(cfg.GeneratorCommand))

	engine := workflow.NewEngine(
		router.New(pattern.Domain(cfg.DefaultDomain)),
		matcher,
		validator,
		fileStore,
		backend,
		workflow.Options{
			Metrics:     workflow.NewRecorder(cfg.MetricsPath()),
			SearchLimit: cfg.SearchLimit,
			Philosophy:  readPhilosophy(cfg),
		},
	)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"patternctl",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	generateTool := tools.NewGenerateTool(engine)
	s.AddTool(generateTool.Definition(), generateTool.Handle)

	searchTool := tools.NewSearchTool(matcher, cfg.SearchLimit)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	listTool := tools.NewListTool(fileStore)
	s.AddTool(listTool.Definition(), listTool.Handle)

	validateTool := tools.NewValidateTool(validator)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	instructionsTool := tools.NewInstructionsTool(fileStore, renderer, cfg.PhilosophyPath())
	s.AddTool(instructionsTool.Definition(), instructionsTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(fileStore, cfg.PhilosophyPath())
	s.AddResource(resourceHandler.PhilosophyResource(), resourceHandler.HandlePhilosophy)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the index
// is disabled or hasn't been initialized.
func noop() {}

// readPhilosophy loads the philosophy text for generation prompts.
// A missing file just means no extra constraints.
func readPhilosophy(cfg *config.Config) string {
	data, err := os.ReadFile(cfg.PhilosophyPath())
	if err != nil {
		return ""
	}
	return string(data)
}

// serverInstructions returns the system instructions that tell the AI
// how to use the pattern store effectively.
func serverInstructions() string {
	return `You have access to patternctl, a pattern-first code generation MCP server.

## What pattern-first means
Code is only derived from stored, validated patterns. Search before you
create; reuse before you improvise. New patterns must pass validation
(complete metadata, minimum length, no placeholder markers) before
anything derives from them.

## Workflow for any coding task
1. Call pattern_instructions once to load the store's constraints.
2. Call pattern_search with the task text. If a pattern matches, apply
   it as-is — stored patterns were validated when accepted.
3. If nothing matches, call pattern_generate with the task. It routes
   the task to a domain, drafts a pattern, validates it and stores it
   only when valid.
4. If the draft is rejected, show the user the validator errors. Fix
   the draft and call pattern_validate to re-check before retrying.

## Rules
- NEVER emit code that does not trace back to a stored pattern.
- NEVER store placeholder content: no TODO markers, no omitted-code
  ellipsis, no empty-statement stubs.
- Use pattern_list to show the user what the store already covers.
- The pattern://philosophy resource holds the full constraint text;
  pattern://catalog holds the machine-readable catalog.`
}
