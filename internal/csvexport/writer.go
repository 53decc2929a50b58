package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docvet/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Run ID",
	"Document",
	"Kind",
	"Size",
	"Document Status",
	"Rule",
	"Rule Status",
	"Message",
}

// Writer wraps csv.Writer for exporting validation runs as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRun writes one row per rule outcome, or a single row for a document
// that could not be loaded.
func (w *Writer) WriteRun(run *domain.RunResult) error {
	for i := range run.Reports {
		for _, row := range reportToRows(run.ID.String(), &run.Reports[i]) {
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func reportToRows(runID string, r *domain.ValidationReport) [][]string {
	base := []string{runID, r.DocumentID, r.Kind, strconv.Itoa(r.Size), documentStatus(r)}

	if r.Failure != nil {
		row := append(append([]string{}, base...), "", string(r.Failure.Kind), r.Failure.Message)
		return [][]string{row}
	}

	rows := make([][]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		row := append(append([]string{}, base...), o.RuleName, string(o.Status), o.Message)
		rows = append(rows, row)
	}
	return rows
}

func documentStatus(r *domain.ValidationReport) string {
	switch {
	case r.Failure != nil:
		return "load error"
	case r.Passed:
		return "passed"
	default:
		return "failed"
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Characters
// other than alphanumerics, - and _ become _, runs of _ collapse, and the
// result is truncated to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.csv for the given day.
func BuildFilename(name string, day time.Time) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), day.Format("2006-01-02"))
}
