package openapi_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvet/internal/domain"
	"docvet/internal/parser"
	"docvet/internal/validator"
	"docvet/internal/validator/openapi"
)

func loadSpec(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/servicenow-openapi.yaml")
	require.NoError(t, err)
	return string(data)
}

func validate(t *testing.T, raw string) *domain.ValidationReport {
	t.Helper()
	doc, err := parser.Parse("openapi.yaml", []byte(raw), domain.FormatYAML)
	require.NoError(t, err)
	report, err := validator.NewEngine().Validate(doc, openapi.RuleSet())
	require.NoError(t, err)
	return report
}

func TestOpenAPI_CompleteSpecPasses(t *testing.T) {
	report := validate(t, loadSpec(t))

	assert.True(t, report.Passed)
	assert.Len(t, report.Outcomes, 14)
	assert.Equal(t, openapi.Kind, report.Kind)
}

func TestOpenAPI_MissingSecurity(t *testing.T) {
	raw := strings.Replace(loadSpec(t), "security:\n  - oauth2: []\n", "", 1)

	report := validate(t, raw)

	assert.False(t, report.Passed)
	require.Len(t, report.Outcomes, 14)
	for _, o := range report.Outcomes {
		if o.RuleName == "Has security section" {
			assert.Equal(t, domain.OutcomeFailed, o.Status)
			assert.Equal(t, "Should have security section with oauth2", o.Message)
			continue
		}
		assert.Equal(t, domain.OutcomePassed, o.Status, o.RuleName)
	}
}

func TestOpenAPI_TokenInCommentCounts(t *testing.T) {
	raw := strings.Replace(loadSpec(t), "operationId: createTicket", "operationId: createIncident", 1)
	raw += "# operationId: createTicket\n"

	report := validate(t, raw)

	for _, o := range report.Outcomes {
		if o.RuleName == "Has createTicket operation" {
			assert.True(t, o.Passed)
		}
	}
	assert.True(t, report.Passed)
}

func TestOpenAPI_MissingOperation(t *testing.T) {
	raw := strings.Replace(loadSpec(t), "operationId: closeTicket", "operationId: resolveTicket", 1)

	report := validate(t, raw)

	assert.False(t, report.Passed)
	_, failed, _ := report.Counts()
	assert.Equal(t, 1, failed)
}

func TestContains(t *testing.T) {
	doc := &domain.Document{Raw: []byte("paths:\n  x: y\n")}

	ok, err := openapi.Contains("paths:", "x:")(doc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = openapi.Contains("paths:", "servers:")(doc)
	require.NoError(t, err)
	assert.False(t, ok)
}
