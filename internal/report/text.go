package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docvet/internal/domain"
)

// Text renders the console layout: one block per document with a mark per
// rule, then the run verdict.
type Text struct {
	// Footer is printed after a passing run, e.g. a pointer to a fuller linter.
	Footer string
}

// NewText creates a Text formatter.
func NewText() *Text {
	return &Text{}
}

type palette struct {
	pass, fail, warn, header, muted lipgloss.Style
}

// newPalette binds styles to w so colour is dropped when w is not a terminal.
func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		pass:   r.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		header: r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func (t *Text) Format(w io.Writer, run *domain.RunResult) error {
	p := newPalette(w)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", p.header.Render(fmt.Sprintf("🔍 Validating %d document(s)...", len(run.Reports))))
	for i := range run.Reports {
		writeReport(&b, p, &run.Reports[i])
	}

	passed := 0
	for i := range run.Reports {
		if run.Reports[i].Passed {
			passed++
		}
	}
	fmt.Fprintf(&b, "%s\n", p.muted.Render(fmt.Sprintf("%d document(s): %d valid, %d with issues", len(run.Reports), passed, len(run.Reports)-passed)))

	if run.Passed {
		fmt.Fprintf(&b, "%s\n", p.pass.Render("✅ All documents are valid!"))
		if t.Footer != "" {
			fmt.Fprintf(&b, "\n%s\n", p.muted.Render(t.Footer))
		}
	} else {
		fmt.Fprintf(&b, "%s\n", p.fail.Render("❌ Some documents have issues!"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeReport(b *strings.Builder, p palette, r *domain.ValidationReport) {
	fmt.Fprintf(b, "📄 Validating %s...\n", r.DocumentID)

	if r.Failure != nil {
		fmt.Fprintf(b, "  %s\n\n", p.fail.Render("❌ "+failureLine(r)))
		return
	}

	for _, o := range r.Outcomes {
		switch o.Status {
		case domain.OutcomePassed:
			fmt.Fprintf(b, "  %s\n", p.pass.Render("✓ "+o.RuleName))
		case domain.OutcomeFailed:
			fmt.Fprintf(b, "  %s\n", p.fail.Render(fmt.Sprintf("✗ %s: %s", o.RuleName, o.Message)))
		default:
			fmt.Fprintf(b, "  %s\n", p.warn.Render(fmt.Sprintf("⚠ %s: %s", o.RuleName, o.Message)))
		}
	}

	if r.Passed {
		fmt.Fprintf(b, "  %s\n\n", p.pass.Render(fmt.Sprintf("✅ %s is valid", r.DocumentID)))
	} else {
		fmt.Fprintf(b, "  %s\n\n", p.fail.Render(fmt.Sprintf("❌ %s has issues", r.DocumentID)))
	}
}

func failureLine(r *domain.ValidationReport) string {
	switch r.Failure.Kind {
	case domain.LoadNotFound:
		return fmt.Sprintf("%s not found", r.DocumentID)
	case domain.LoadSyntaxError:
		return fmt.Sprintf("%s in %s", r.Failure.Message, r.DocumentID)
	default:
		return fmt.Sprintf("Error reading %s: %s", r.DocumentID, r.Failure.Message)
	}
}
