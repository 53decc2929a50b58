package domain

// Format is the declared encoding of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a format name or file extension (with or without the dot) to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", ".json":
		return FormatJSON, nil
	case "yaml", "yml", ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// OutcomeStatus is the result of evaluating one rule against one document.
type OutcomeStatus string

const (
	OutcomePassed OutcomeStatus = "passed"
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomeError marks a rule that could not be evaluated, as opposed to one that found a problem.
	OutcomeError OutcomeStatus = "error"
)

// LoadFailureKind classifies why a document never reached rule evaluation.
type LoadFailureKind string

const (
	LoadNotFound    LoadFailureKind = "not_found"
	LoadReadError   LoadFailureKind = "read_error"
	LoadSyntaxError LoadFailureKind = "syntax_error"
)

// Verdict is the overall result of a run.
type Verdict string

const (
	VerdictPassed      Verdict = "passed"
	VerdictFailed      Verdict = "failed"
	VerdictNoDocuments Verdict = "no_documents"
)
