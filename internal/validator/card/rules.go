// Package card holds the rule set for Adaptive Card template documents.
package card

import (
	"regexp"
	"strconv"
	"strings"

	"docvet/internal/domain"
	"docvet/internal/validator"
)

// Kind is the registry name of card documents.
const Kind = "card"

// MaxVersion is the highest card schema version accepted by Teams clients.
const MaxVersion = 1.5

// Rules returns the card checks in report order.
func Rules() []validator.Rule {
	return []validator.Rule{
		{
			Name:    "Has $schema",
			Message: "Should have $schema property pointing to adaptivecards.io",
			Check: validator.Predicate(func(d *domain.Document) bool {
				s, ok := stringField(d, "$schema")
				return ok && strings.Contains(s, "adaptivecards.io")
			}),
		},
		{
			Name:    "Has type: AdaptiveCard",
			Message: "Should have type: AdaptiveCard",
			Check: validator.Predicate(func(d *domain.Document) bool {
				s, ok := stringField(d, "type")
				return ok && s == "AdaptiveCard"
			}),
		},
		{
			Name:    "Has version",
			Message: "Should have version property",
			Check: validator.Predicate(func(d *domain.Document) bool {
				s, ok := stringField(d, "version")
				return ok && s != ""
			}),
		},
		{
			Name:    "Has body",
			Message: "Should have body array with at least one element",
			Check: validator.Predicate(func(d *domain.Document) bool {
				v, _ := d.Field("body")
				body, ok := v.([]any)
				return ok && len(body) > 0
			}),
		},
		{
			Name:    "Version is 1.5 or lower",
			Message: "Version should be 1.5 or lower for compatibility",
			Check: validator.Predicate(func(d *domain.Document) bool {
				v, _ := d.Field("version")
				version, ok := numericVersion(v)
				return ok && version <= MaxVersion
			}),
		},
	}
}

// RuleSet returns the frozen card rule set.
func RuleSet() *validator.RuleSet {
	return validator.MustRuleSet(Kind, Rules())
}

func stringField(d *domain.Document, key string) (string, bool) {
	v, ok := d.Field(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// leadingFloat matches the longest numeric prefix, so "1.5.0" reads as 1.5.
var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// numericVersion reads a version the way card hosts do: numbers as-is, strings by
// their leading decimal prefix. Anything without a numeric prefix is not a version.
func numericVersion(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		m := leadingFloat.FindString(strings.TrimSpace(t))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
