// Package workflow drives the pattern-first execution flow as an
// explicit state machine:
//
//	ROUTING → SEARCHING → (FOUND | CREATING) → VALIDATING →
//	(ACCEPTED | REJECTED) → DONE
//
// Reused patterns skip validation: they were validated when accepted
// into the store. New pattern bodies come from the generation backend
// (or a human draft) and are only written to the store after the
// validator passes them.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/patternfirst/patternctl/internal/genai"
	"github.com/patternfirst/patternctl/internal/match"
	"github.com/patternfirst/patternctl/internal/pattern"
	"github.com/patternfirst/patternctl/internal/router"
	"github.com/patternfirst/patternctl/internal/store"
	"github.com/patternfirst/patternctl/internal/validate"
)

// Result is the outcome of one workflow run.
type Result struct {
	RunID      string           `json:"run_id"`
	Task       string           `json:"task"`
	Domain     pattern.Domain   `json:"domain"`
	Pattern    *pattern.Pattern `json:"pattern,omitempty"`
	Reused     bool             `json:"reused"`
	Validation *validate.Result `json:"validation,omitempty"`
	Trace      []State          `json:"trace"`

	// failed marks a run that aborted on a collaborator error, so the
	// metrics trail can label it.
	failed bool
}

// State returns the terminal state of the run.
func (r *Result) State() State {
	if len(r.Trace) == 0 {
		return StateRouting
	}
	return r.Trace[len(r.Trace)-1]
}

// Rejected reports whether the run ended with a validation rejection.
func (r *Result) Rejected() bool {
	for _, s := range r.Trace {
		if s == StateRejected {
			return true
		}
	}
	return false
}

// Outcome is the metrics label for the run.
func (r *Result) Outcome() string {
	switch {
	case r.failed:
		return "failed"
	case r.Rejected():
		return "rejected"
	case r.Reused:
		return "reused"
	default:
		return "created"
	}
}

// Engine wires the router, matcher, validator, store and generation
// backend into the state machine.
type Engine struct {
	router    *router.Router
	matcher   match.Matcher
	validator *validate.Validator
	store     store.Store
	backend   genai.Backend

	metrics     *Recorder // nil disables recording
	searchLimit int
	philosophy  string
}

// Options tunes an Engine beyond its required collaborators.
type Options struct {
	Metrics     *Recorder
	SearchLimit int
	Philosophy  string
}

// NewEngine creates a workflow engine. All collaborators are required
// except those carried in opts.
func NewEngine(r *router.Router, m match.Matcher, v *validate.Validator, s store.Store, b genai.Backend, opts Options) *Engine {
	limit := opts.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	return &Engine{
		router:      r,
		matcher:     m,
		validator:   v,
		store:       s,
		backend:     b,
		metrics:     opts.Metrics,
		searchLimit: limit,
		philosophy:  opts.Philosophy,
	}
}

// step appends the next state to the trace, asserting the transition
// is legal.
func (e *Engine) step(res *Result, next State) error {
	from := res.State()
	if len(res.Trace) == 0 {
		if next != StateRouting {
			return fmt.Errorf("workflow: run must start in %s, got %s", StateRouting, next)
		}
		res.Trace = append(res.Trace, next)
		return nil
	}
	if !CanTransition(from, next) {
		return fmt.Errorf("workflow: illegal transition %s -> %s", from, next)
	}
	res.Trace = append(res.Trace, next)
	return nil
}

// Run executes the full flow for a task. A rejected validation is not
// an error: the result carries the validator's verdict and the run
// terminates in REJECTED. Errors are reserved for infrastructure
// failures (store IO, generation collaborator).
func (e *Engine) Run(ctx context.Context, task string) (*Result, error) {
	res := &Result{RunID: newRunID(), Task: task}

	// ROUTING: always succeeds.
	if err := e.step(res, StateRouting); err != nil {
		return res, err
	}
	res.Domain = e.router.Route(task)

	// SEARCHING: scoped to the routed domain.
	if err := e.step(res, StateSearching); err != nil {
		return res, err
	}
	matches, err := e.matcher.Search(task, e.searchLimit, res.Domain)
	if err != nil {
		return res, fmt.Errorf("searching patterns: %w", err)
	}

	if len(matches) > 0 {
		// FOUND: reuse the top candidate, no re-validation.
		if err := e.step(res, StateFound); err != nil {
			return res, err
		}
		res.Pattern = &matches[0]
		res.Reused = true
		if err := e.step(res, StateDone); err != nil {
			return res, err
		}
		e.record(res)
		return res, nil
	}

	// CREATING: produce a new body via the generation backend.
	if err := e.step(res, StateCreating); err != nil {
		return res, err
	}
	prompt := genai.Prompt(task, string(res.Domain), e.philosophy)
	body, err := e.backend.Generate(ctx, prompt)
	if err != nil {
		// The run still leaves a metrics record before the error
		// propagates.
		res.failed = true
		e.record(res)
		return res, err
	}

	draft := draftPattern(task, res.Domain, body)
	return e.validateAndStore(res, draft)
}

// Submit runs the validation tail of the flow for an externally
// drafted pattern (the create-pattern path): VALIDATING and onwards,
// with ROUTING/SEARCHING skipped because the caller fixed the domain.
func (e *Engine) Submit(draft *pattern.Pattern) (*Result, error) {
	res := &Result{RunID: newRunID(), Task: draft.Meta.Task, Domain: draft.Meta.Domain}
	res.Trace = append(res.Trace, StateRouting, StateSearching, StateCreating)
	return e.validateAndStore(res, draft)
}

func (e *Engine) validateAndStore(res *Result, draft *pattern.Pattern) (*Result, error) {
	if err := e.step(res, StateValidating); err != nil {
		return res, err
	}
	verdict := e.validator.Validate(draft)
	res.Validation = &verdict

	if !verdict.Valid {
		// REJECTED: nothing is written.
		if err := e.step(res, StateRejected); err != nil {
			return res, err
		}
		e.record(res)
		return res, nil
	}

	if err := e.step(res, StateAccepted); err != nil {
		return res, err
	}
	if _, err := e.store.Put(draft); err != nil {
		return res, fmt.Errorf("storing accepted pattern: %w", err)
	}
	res.Pattern = draft

	if err := e.step(res, StateDone); err != nil {
		return res, err
	}
	e.record(res)
	return res, nil
}

// record appends a usage metric. Failures are swallowed: metrics must
// never change a run's outcome.
func (e *Engine) record(res *Result) {
	if e.metrics == nil {
		return
	}
	total := 0
	if all, err := e.store.GetAll(""); err == nil {
		total = len(all)
	}
	_ = e.metrics.Record(res, total)
}

// draftPattern builds the pattern record for a generated body. A body
// that already carries frontmatter is taken as a full pattern file;
// anything else becomes content with metadata derived from the task,
// and the validator decides whether that is enough.
func draftPattern(task string, domain pattern.Domain, body string) *pattern.Pattern {
	if p, err := pattern.Parse([]byte(body)); err == nil {
		if strings.TrimSpace(p.Meta.Task) == "" {
			p.Meta.Task = task
		}
		if p.Meta.Domain == "" {
			p.Meta.Domain = domain
		}
		return p
	}

	return &pattern.Pattern{
		Meta: pattern.Metadata{
			Task:         task,
			Domain:       domain,
			Complexity:   estimateComplexity(body),
			Tags:         tagsFromTask(task),
			Dependencies: []string{"none"},
		},
		Content: body,
	}
}

// estimateComplexity maps body size onto the 1-5 scale.
func estimateComplexity(body string) int {
	lines := strings.Count(body, "\n") + 1
	switch {
	case lines < 20:
		return 1
	case lines < 50:
		return 2
	case lines < 100:
		return 3
	case lines < 200:
		return 4
	default:
		return 5
	}
}

// tagsFromTask keeps the task's significant words as tags.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "for": true, "with": true,
	"and": true, "or": true, "to": true, "of": true, "in": true,
}

func tagsFromTask(task string) []string {
	var tags []string
	for _, w := range strings.Fields(strings.ToLower(task)) {
		w = strings.Trim(w, ".,;:!?")
		if w == "" || stopWords[w] {
			continue
		}
		tags = append(tags, w)
	}
	if len(tags) == 0 {
		tags = []string{"general"}
	}
	return tags
}
