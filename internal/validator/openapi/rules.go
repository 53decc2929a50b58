// Package openapi holds the rule set for the ServiceNow API specification.
//
// Every check is a substring test against the raw document text, not a lookup in
// the parsed tree: a token that appears only inside a comment or a description
// still counts as present.
package openapi

import (
	"strings"

	"docvet/internal/domain"
	"docvet/internal/validator"
)

// Kind is the registry name of API specification documents.
const Kind = "openapi"

// Operations are the ticket operations the plugin manifest calls.
var Operations = []string{"listMyTickets", "createTicket", "updateTicket", "closeTicket", "getTicket"}

type textRule struct {
	name    string
	tokens  []string
	message string
}

func sectionRules() []textRule {
	return []textRule{
		{name: "Has openapi version", tokens: []string{"openapi: 3.0"}, message: "OpenAPI version should be 3.0.x"},
		{name: "Has info section", tokens: []string{"info:", "title:"}, message: "Should have info section with title"},
		{name: "Has servers section", tokens: []string{"servers:"}, message: "Should have servers section"},
		{name: "Has paths section", tokens: []string{"paths:"}, message: "Should have paths section"},
		{name: "Has security section", tokens: []string{"security:", "oauth2"}, message: "Should have security section with oauth2"},
	}
}

func trailingRules() []textRule {
	return []textRule{
		{name: "Has components section", tokens: []string{"components:"}, message: "Should have components section"},
		{name: "Has security schemes", tokens: []string{"securitySchemes:"}, message: "Should have securitySchemes in components"},
		{name: "Has OAuth configuration", tokens: []string{"authorizationUrl:", "tokenUrl:"}, message: "Should have OAuth authorizationUrl and tokenUrl"},
		{name: "Has incident schema", tokens: []string{"schemas:", "Incident:"}, message: "Should have Incident schema in components"},
	}
}

// Contains returns a check that passes when every token occurs in the raw text.
func Contains(tokens ...string) validator.CheckFunc {
	return validator.Predicate(func(d *domain.Document) bool {
		text := d.Text()
		for _, t := range tokens {
			if !strings.Contains(text, t) {
				return false
			}
		}
		return true
	})
}

// Rules returns the specification checks in report order.
func Rules() []validator.Rule {
	var textRules []textRule
	textRules = append(textRules, sectionRules()...)
	for _, op := range Operations {
		textRules = append(textRules, textRule{
			name:    "Has " + op + " operation",
			tokens:  []string{"operationId: " + op},
			message: "Should have " + op + " operation",
		})
	}
	textRules = append(textRules, trailingRules()...)

	rules := make([]validator.Rule, 0, len(textRules))
	for _, tr := range textRules {
		rules = append(rules, validator.Rule{
			Name:    tr.name,
			Check:   Contains(tr.tokens...),
			Message: tr.message,
		})
	}
	return rules
}

// RuleSet returns the frozen specification rule set.
func RuleSet() *validator.RuleSet {
	return validator.MustRuleSet(Kind, Rules())
}
