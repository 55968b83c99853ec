// Package templates renders the markdown documents the framework
// hands to humans and generation collaborators: the pattern scaffold
// for manual creation and the pattern-first working instructions.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed files/*.md.tmpl
var templateFS embed.FS

// Template names.
const (
	Scaffold     = "scaffold.md.tmpl"
	Instructions = "instructions.md.tmpl"
)

// Renderer renders a named template with the given data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// ScaffoldData fills the pattern scaffold template.
type ScaffoldData struct {
	Task         string
	Domain       string
	Complexity   int
	Tags         []string
	Dependencies []string
	Language     string
}

// InstructionsData fills the working-instructions template.
type InstructionsData struct {
	Domains      []string
	PatternCount int
	Philosophy   string
}

type embedRenderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templateFS, "files/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &embedRenderer{tmpl: tmpl}, nil
}

// Render implements Renderer.
func (r *embedRenderer) Render(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return b.String(), nil
}
