// Package genai abstracts the external generation collaborator that
// produces new pattern bodies when no stored pattern matches a task.
//
// The framework never generates code itself. It shells out to a
// configured generator command, or — when none is configured — reports
// a typed error that tells the caller how to create the pattern by
// hand instead.
package genai

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Backend produces a pattern body for a task prompt.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CollaboratorError reports a failure of the external generation
// collaborator, with a hint for the manual fallback path.
type CollaboratorError struct {
	Op   string
	Hint string
	Err  error
}

func (e *CollaboratorError) Error() string {
	msg := fmt.Sprintf("generation collaborator: %s", e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// Command runs a configured external program, writes the prompt to its
// stdin and reads the generated body from its stdout.
type Command struct {
	argv []string
}

// NewCommand creates a Command backend from an argv slice, e.g.
// ["claude", "-p"]. An empty argv yields the Disabled backend instead.
func NewCommand(argv []string) Backend {
	if len(argv) == 0 {
		return Disabled{}
	}
	return &Command{argv: argv}
}

// Generate implements Backend.
func (c *Command) Generate(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return "", &CollaboratorError{
			Op:   fmt.Sprintf("running %s", c.argv[0]),
			Hint: "check generator_command in config",
			Err:  err,
		}
	}

	body := strings.TrimSpace(stdout.String())
	if body == "" {
		return "", &CollaboratorError{
			Op:   fmt.Sprintf("running %s", c.argv[0]),
			Hint: "generator produced no output",
		}
	}
	return body + "\n", nil
}

// Disabled is the backend used when no generator command is configured.
// Every call fails with instructions for the manual path.
type Disabled struct{}

// Generate implements Backend.
func (Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", &CollaboratorError{
		Op:   "generate",
		Hint: "no generator_command configured; write the pattern by hand with create-pattern",
	}
}

// WithRetry wraps a backend with bounded retries and exponential
// backoff. Context cancellation aborts between attempts.
type WithRetry struct {
	Backend  Backend
	Attempts int
	Delay    time.Duration
	Factor   int
}

// NewWithRetry applies the standard policy: 3 attempts, starting at
// 500ms, doubling each time.
func NewWithRetry(b Backend) *WithRetry {
	return &WithRetry{Backend: b, Attempts: 3, Delay: 500 * time.Millisecond, Factor: 2}
}

// Generate implements Backend.
func (r *WithRetry) Generate(ctx context.Context, prompt string) (string, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := r.Delay

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= time.Duration(r.Factor)
		}

		body, err := r.Backend.Generate(ctx, prompt)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", lastErr
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// Prompt renders the generation prompt for a task within a domain,
// embedding the philosophy text when available.
func Prompt(task, domain, philosophy string) string {
	var b strings.Builder
	b.WriteString("Produce a complete, reusable solution pattern in markdown.\n\n")
	b.WriteString("Task: " + task + "\n")
	b.WriteString("Domain: " + domain + "\n\n")
	if philosophy != "" {
		b.WriteString("Follow these constraints:\n")
		b.WriteString(philosophy)
		b.WriteString("\n\n")
	}
	b.WriteString("Structure the body with Description, Setup, Usage, Notes and Code sections. ")
	b.WriteString("The code must be complete: no placeholder markers, no omitted sections.\n")
	return b.String()
}
