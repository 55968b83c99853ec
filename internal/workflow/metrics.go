package workflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// Metric is one usage record, appended as a JSON line per run.
type Metric struct {
	RunID         string `json:"run_id"`
	Timestamp     string `json:"timestamp"`
	Task          string `json:"task"`
	Domain        string `json:"domain"`
	Outcome       string `json:"outcome"`
	PatternReused bool   `json:"pattern_reused"`
	PatternsTotal int    `json:"patterns_total"`
}

// Recorder appends usage metrics to a JSONL file. Recording is best
// effort: the workflow result never depends on it.
type Recorder struct {
	path string
}

// NewRecorder creates a recorder writing to path.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Record appends one metric line. Errors are returned for logging but
// callers treat them as non-fatal.
func (r *Recorder) Record(res *Result, patternsTotal int) error {
	m := Metric{
		RunID:         res.RunID,
		Timestamp:     timeNow().UTC().Format(time.RFC3339),
		Task:          res.Task,
		Domain:        string(res.Domain),
		Outcome:       res.Outcome(),
		PatternReused: res.Reused,
		PatternsTotal: patternsTotal,
	}

	line, err := json.Marshal(m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = f.Write(append(line, '\n'))
	return err
}

// newRunID tags each workflow run for the metrics trail.
func newRunID() string {
	return uuid.NewString()
}
