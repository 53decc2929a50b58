// Package email renders the failed-run notification shared by the notifier backends.
package email

import (
	"fmt"
	"html"
	"strings"

	"docvet/internal/domain"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// RunFailed renders the notification for a run that did not pass.
func RunFailed(run *domain.RunResult) Message {
	var failed []domain.ValidationReport
	for i := range run.Reports {
		if !run.Reports[i].Passed {
			failed = append(failed, run.Reports[i])
		}
	}

	subject := fmt.Sprintf("docvet: %d of %d document(s) failed validation", len(failed), len(run.Reports))

	var text strings.Builder
	fmt.Fprintf(&text, "Validation run %s finished at %s.\n\n", run.ID, run.FinishedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	for i := range failed {
		for _, line := range problems(&failed[i]) {
			fmt.Fprintf(&text, "%s: %s\n", failed[i].DocumentID, line)
		}
	}

	var body strings.Builder
	body.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Validation failed</h2>
`)
	fmt.Fprintf(&body, "  <p>Run <code>%s</code>: %d of %d document(s) failed.</p>\n", run.ID, len(failed), len(run.Reports))
	for i := range failed {
		fmt.Fprintf(&body, "  <h3>%s</h3>\n  <ul>\n", html.EscapeString(failed[i].DocumentID))
		for _, line := range problems(&failed[i]) {
			fmt.Fprintf(&body, "    <li>%s</li>\n", html.EscapeString(line))
		}
		body.WriteString("  </ul>\n")
	}
	body.WriteString("</body>\n</html>")

	return Message{Subject: subject, Text: text.String(), HTML: body.String()}
}

func problems(r *domain.ValidationReport) []string {
	if r.Failure != nil {
		return []string{r.Failure.Message}
	}
	var out []string
	for _, o := range r.Outcomes {
		if !o.Passed {
			out = append(out, o.RuleName+": "+o.Message)
		}
	}
	return out
}
