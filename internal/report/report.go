// Package report renders validation runs for people and machines.
package report

import (
	"fmt"
	"io"

	"docvet/internal/domain"
)

// Output format names accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Exit codes of the validate command.
const (
	ExitOK    = 0
	ExitFail  = 1
	ExitUsage = 2
)

// Formatter writes a finished run.
type Formatter interface {
	Format(w io.Writer, run *domain.RunResult) error
}

// New returns the formatter for name.
func New(name string) (Formatter, error) {
	switch name {
	case "", FormatText:
		return NewText(), nil
	case FormatJSON:
		return JSON{}, nil
	case FormatCSV:
		return CSV{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want text, json or csv)", name)
	}
}

// ExitCode maps a verdict to the process exit status.
func ExitCode(v domain.Verdict) int {
	if v == domain.VerdictPassed {
		return ExitOK
	}
	return ExitFail
}

// RenderNoDocuments reports that a listing produced nothing to validate.
func RenderNoDocuments(w io.Writer, label, where string) error {
	_, err := fmt.Fprintf(w, "❌ No %ss found in: %s\n", label, where)
	return err
}
