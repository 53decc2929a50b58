package localizer_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"docvet/internal/domain"
	"docvet/internal/localizer"
)

const spec = `openapi: 3.0.3
info:
  title: ServiceNow IT Helpdesk API
servers:
  - url: https://example.service-now.com/api/now
    description: production
paths:
  /table/incident:
    get:
      operationId: listMyTickets
`

func TestLocalize(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "openapi.yaml", []byte(spec), 0o644))

	err := localizer.Localize(fs, "openapi.yaml", ".tmp/nested/openapi.local.yaml", "http://localhost:4010")
	require.NoError(t, err)

	out, err := afero.ReadFile(fs, ".tmp/nested/openapi.local.yaml")
	require.NoError(t, err)

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &doc))
	root := doc.Content[0]
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	assert.Equal(t, []string{"openapi", "info", "servers", "paths"}, keys)

	var parsed struct {
		Servers []map[string]string `yaml:"servers"`
		Paths   map[string]any      `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, []map[string]string{{"url": "http://localhost:4010"}}, parsed.Servers)
	assert.Contains(t, parsed.Paths, "/table/incident")
	assert.NotContains(t, string(out), "service-now.com")
}

func TestRewrite_AppendsServers(t *testing.T) {
	out, err := localizer.Rewrite([]byte("openapi: 3.0.3\npaths: {}\n"), "http://api:8080")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(string(out), "servers:\n  - url: http://api:8080\n"), string(out))
}

func TestRewrite_Errors(t *testing.T) {
	_, err := localizer.Rewrite([]byte("- a\n- b\n"), "http://localhost:4010")
	assert.ErrorIs(t, err, localizer.ErrNotMapping)

	_, err = localizer.Rewrite([]byte(""), "http://localhost:4010")
	assert.ErrorIs(t, err, localizer.ErrNotMapping)

	_, err = localizer.Rewrite([]byte("a: [\n"), "http://localhost:4010")
	assert.ErrorIs(t, err, domain.ErrSyntax)
}

func TestLocalize_MissingInput(t *testing.T) {
	err := localizer.Localize(afero.NewMemMapFs(), "openapi.yaml", "out.yaml", "http://localhost:4010")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
