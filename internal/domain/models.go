package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Document is one parsed input under validation. Value holds a JSON-like tree
// (map[string]any, []any, string, float64, bool, nil). Documents are never mutated after parsing.
type Document struct {
	ID     string
	Format Format
	Raw    []byte
	Size   int
	Value  any
}

// Text returns the raw document content as a string.
func (d *Document) Text() string {
	return string(d.Raw)
}

// Field returns the top-level member key of an object document.
func (d *Document) Field(key string) (any, bool) {
	m, ok := d.Value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// Outcome is the result of one rule against one document.
type Outcome struct {
	RuleName string        `json:"rule_name"`
	Passed   bool          `json:"passed"`
	Status   OutcomeStatus `json:"status"`
	Message  string        `json:"message,omitempty"`
}

// LoadFailure records why a document could not be validated at all.
type LoadFailure struct {
	Kind    LoadFailureKind `json:"kind"`
	Message string          `json:"message"`
}

// ValidationReport holds every outcome for one document.
type ValidationReport struct {
	DocumentID string       `json:"document_id"`
	Kind       string       `json:"kind"`
	Size       int          `json:"size"`
	Outcomes   []Outcome    `json:"outcomes"`
	Passed     bool         `json:"passed"`
	Failure    *LoadFailure `json:"failure,omitempty"`
}

// Counts returns the number of passed, failed, and errored outcomes.
func (r *ValidationReport) Counts() (passed, failed, errored int) {
	for i := range r.Outcomes {
		switch r.Outcomes[i].Status {
		case OutcomePassed:
			passed++
		case OutcomeFailed:
			failed++
		case OutcomeError:
			errored++
		}
	}
	return passed, failed, errored
}

// RunResult aggregates the reports of one validation run.
type RunResult struct {
	ID         uuid.UUID          `json:"id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Reports    []ValidationReport `json:"reports"`
	Passed     bool               `json:"passed"`
}

// Verdict derives the run verdict from its reports.
func (r *RunResult) Verdict() Verdict {
	if r == nil || len(r.Reports) == 0 {
		return VerdictNoDocuments
	}
	if r.Passed {
		return VerdictPassed
	}
	return VerdictFailed
}

// RunSummary is the persisted, flattened view of a RunResult.
type RunSummary struct {
	ID         uuid.UUID `db:"id" json:"id"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
	Passed     bool      `db:"passed" json:"passed"`
	Documents  int       `db:"documents" json:"documents"`
	Failed     int       `db:"failed" json:"failed"`
	Kinds      string    `db:"kinds" json:"kinds"`

	// Reports is the JSON-encoded report list; list queries leave it empty.
	Reports json.RawMessage `db:"reports" json:"reports,omitempty"`
}

// Summarize flattens a run for persistence.
func Summarize(run *RunResult) (*RunSummary, error) {
	reports, err := gojson.Marshal(run.Reports)
	if err != nil {
		return nil, err
	}
	failed := 0
	kindSet := make(map[string]bool)
	for i := range run.Reports {
		if !run.Reports[i].Passed {
			failed++
		}
		kindSet[run.Reports[i].Kind] = true
	}
	kinds := make([]string, 0, len(kindSet))
	for k := range kindSet {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return &RunSummary{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Passed:     run.Passed,
		Documents:  len(run.Reports),
		Failed:     failed,
		Kinds:      strings.Join(kinds, ","),
		Reports:    reports,
	}, nil
}
