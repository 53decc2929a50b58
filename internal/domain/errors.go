package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("document not found")
	ErrReadFailed           = errors.New("document could not be read")
	ErrSyntax               = errors.New("document syntax error")
	ErrRuleEvaluation       = errors.New("rule evaluation failed")
	ErrNoDocumentsFound     = errors.New("no documents found")
	ErrEmptyRuleSet         = errors.New("rule set has no rules")
	ErrDuplicateRule        = errors.New("duplicate rule name in rule set")
	ErrDuplicateKind        = errors.New("document kind already registered")
	ErrUnknownKind          = errors.New("unknown document kind")
	ErrInvalidRule          = errors.New("invalid rule definition")
	ErrUnsupportedFormat    = errors.New("unsupported document format")
	ErrMissingRequiredFiles = errors.New("required files are missing")
	ErrRunNotFound          = errors.New("validation run not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAuthDisabled         = errors.New("api auth is not configured")
)

// SyntaxError reports a document that could not be decoded in its declared format.
type SyntaxError struct {
	Format Format
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s parse error: %v", strings.ToUpper(string(e.Format)), e.Err)
}

// Is makes errors.Is(err, ErrSyntax) hold for every SyntaxError.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

func (e *SyntaxError) Unwrap() error { return e.Err }

// MissingFilesError lists every required file that was absent.
type MissingFilesError struct {
	Files []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("%d required file(s) missing: %s", len(e.Files), strings.Join(e.Files, ", "))
}

func (e *MissingFilesError) Is(target error) bool { return target == ErrMissingRequiredFiles }

// NoDocumentsError names a listing that matched no documents.
type NoDocumentsError struct {
	Kind string
	Dir  string
}

func (e *NoDocumentsError) Error() string {
	return fmt.Sprintf("no %s documents found in %s", e.Kind, e.Dir)
}

func (e *NoDocumentsError) Is(target error) bool { return target == ErrNoDocumentsFound }
