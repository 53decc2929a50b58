package report

import (
	"io"

	json "github.com/goccy/go-json"

	"docvet/internal/domain"
)

// JSON renders the run as one indented JSON object.
type JSON struct{}

type jsonRun struct {
	*domain.RunResult
	Verdict domain.Verdict `json:"verdict"`
}

func (JSON) Format(w io.Writer, run *domain.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonRun{RunResult: run, Verdict: run.Verdict()})
}
