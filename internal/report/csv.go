package report

import (
	"io"

	"docvet/internal/csvexport"
	"docvet/internal/domain"
)

// CSV renders one row per rule outcome.
type CSV struct{}

func (CSV) Format(w io.Writer, run *domain.RunResult) error {
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteRun(run); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
