package validator

import (
	"fmt"

	"docvet/internal/domain"
)

// CheckFunc evaluates one rule against a document. Returning false means the
// document failed the check; returning an error means the check itself could
// not be evaluated.
type CheckFunc func(doc *domain.Document) (bool, error)

// Rule is a named predicate over a document plus the message shown when it fails.
type Rule struct {
	Name    string
	Check   CheckFunc
	Message string
}

// Predicate adapts a plain boolean function into a CheckFunc.
func Predicate(fn func(doc *domain.Document) bool) CheckFunc {
	return func(doc *domain.Document) (bool, error) {
		return fn(doc), nil
	}
}

// RuleSet is the ordered, immutable list of rules for one document kind.
type RuleSet struct {
	kind  string
	rules []Rule
}

// NewRuleSet validates and freezes an ordered rule list. Empty sets and
// duplicate rule names are configuration errors.
func NewRuleSet(kind string, rules []Rule) (*RuleSet, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("kind %q: %w", kind, domain.ErrEmptyRuleSet)
	}
	seen := make(map[string]bool, len(rules))
	for i := range rules {
		r := &rules[i]
		if r.Name == "" || r.Check == nil {
			return nil, fmt.Errorf("kind %q rule #%d: %w: name and check are required", kind, i+1, domain.ErrInvalidRule)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("kind %q rule %q: %w", kind, r.Name, domain.ErrDuplicateRule)
		}
		seen[r.Name] = true
	}
	frozen := make([]Rule, len(rules))
	copy(frozen, rules)
	return &RuleSet{kind: kind, rules: frozen}, nil
}

// MustRuleSet is NewRuleSet for rule tables compiled into the binary.
func MustRuleSet(kind string, rules []Rule) *RuleSet {
	rs, err := NewRuleSet(kind, rules)
	if err != nil {
		panic(err)
	}
	return rs
}

// Kind returns the document kind the set applies to.
func (rs *RuleSet) Kind() string { return rs.kind }

// Len returns the number of rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Rules returns a copy of the rules in declaration order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Names returns the rule names in declaration order.
func (rs *RuleSet) Names() []string {
	names := make([]string, len(rs.rules))
	for i := range rs.rules {
		names[i] = rs.rules[i].Name
	}
	return names
}
