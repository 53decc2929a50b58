package validator

import (
	"fmt"

	"docvet/internal/domain"
)

// Engine evaluates rule sets against documents.
type Engine struct{}

// NewEngine creates a new validation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Validate runs every rule of rs against doc in declaration order and never
// stops at the first failure. A rule that errors or panics yields an
// OutcomeError outcome; it does not affect the remaining rules. The only error
// returned is a configuration error: a nil or empty rule set.
func (e *Engine) Validate(doc *domain.Document, rs *RuleSet) (*domain.ValidationReport, error) {
	if rs == nil || rs.Len() == 0 {
		return nil, domain.ErrEmptyRuleSet
	}

	report := &domain.ValidationReport{
		DocumentID: doc.ID,
		Kind:       rs.Kind(),
		Size:       doc.Size,
		Outcomes:   make([]domain.Outcome, 0, rs.Len()),
		Passed:     true,
	}
	for i := range rs.rules {
		outcome := evaluate(doc, &rs.rules[i])
		if !outcome.Passed {
			report.Passed = false
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

// Failed builds the zero-outcome report for a document that could not be loaded.
func Failed(id, kind string, size int, failure domain.LoadFailure) *domain.ValidationReport {
	return &domain.ValidationReport{
		DocumentID: id,
		Kind:       kind,
		Size:       size,
		Outcomes:   []domain.Outcome{},
		Passed:     false,
		Failure:    &failure,
	}
}

func evaluate(doc *domain.Document, rule *Rule) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = errorOutcome(rule.Name, fmt.Errorf("panic: %v", r))
		}
	}()

	passed, err := rule.Check(doc)
	if err != nil {
		return errorOutcome(rule.Name, err)
	}
	if !passed {
		return domain.Outcome{
			RuleName: rule.Name,
			Passed:   false,
			Status:   domain.OutcomeFailed,
			Message:  rule.Message,
		}
	}
	return domain.Outcome{RuleName: rule.Name, Passed: true, Status: domain.OutcomePassed}
}

func errorOutcome(name string, cause error) domain.Outcome {
	return domain.Outcome{
		RuleName: name,
		Passed:   false,
		Status:   domain.OutcomeError,
		Message:  fmt.Sprintf("%v: %v", domain.ErrRuleEvaluation, cause),
	}
}
