package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvet/internal/config"
	"docvet/internal/report"
	"docvet/internal/service"
)

const validCard = `{
  "$schema": "https://adaptivecards.io/schemas/1.5.0/schema.json",
  "type": "AdaptiveCard",
  "version": "1.5",
  "body": [{"type": "TextBlock", "text": "Incident ${number}"}]
}`

const outdatedCard = `{
  "$schema": "https://adaptivecards.io/schemas/1.6.0/schema.json",
  "type": "AdaptiveCard",
  "version": "1.6",
  "body": [{"type": "TextBlock"}]
}`

type result struct {
	stdout string
	stderr string
	code   int
}

// execute runs the command line against fsys with a fresh command tree.
func execute(t *testing.T, fsys afero.Fs, args ...string) result {
	t.Helper()
	prev := appFs
	appFs = fsys
	t.Cleanup(func() { appFs = prev })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	code := exitCode(cmd, cmd.Execute())
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func openAPIFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "validator", "openapi", "testdata", "servicenow-openapi.yaml"))
	require.NoError(t, err)
	return string(data)
}

// configFile writes a YAML config file to a temp dir and returns its path.
func configFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docvet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "version")

	assert.Equal(t, report.ExitOK, res.code)
	assert.Contains(t, res.stdout, "docvet version dev")
}

func TestValidate_CardsDirectoryMissing(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "validate", "cards")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stderr, "❌ Adaptive Card template directory not found: adaptiveCards")
}

func TestValidate_NoCards(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("adaptiveCards", 0o755))
	writeFile(t, fsys, "adaptiveCards/README.md", "not a card")

	res := execute(t, fsys, "validate", "cards")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stderr, "❌ No Adaptive Card templates found in: adaptiveCards")
}

func TestValidate_CardsPass(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "adaptiveCards/incident.json", validCard)

	res := execute(t, fsys, "validate", "cards")

	assert.Equal(t, report.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "incident.json is valid")
	assert.Contains(t, res.stdout, "✅ All documents are valid!")
	assert.Contains(t, res.stdout, "https://adaptivecards.io/designer/")
}

func TestValidate_CardsFail(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "adaptiveCards/incident.json", validCard)
	writeFile(t, fsys, "adaptiveCards/legacy.json", outdatedCard)
	writeFile(t, fsys, "adaptiveCards/broken.json", `{"type": `)

	res := execute(t, fsys, "validate", "cards", "--concurrency", "3")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stdout, "✗ Version is 1.5 or lower: Version should be 1.5 or lower for compatibility")
	assert.Contains(t, res.stdout, "broken.json")
	assert.Contains(t, res.stdout, "3 document(s): 1 valid, 2 with issues")
	assert.Contains(t, res.stdout, "❌ Some documents have issues!")
	assert.NotContains(t, res.stdout, "adaptivecards.io/designer")
}

func TestValidate_OpenAPI(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "plugins/servicenow-openapi.yaml", openAPIFixture(t))

	res := execute(t, fsys, "validate", "openapi")

	assert.Equal(t, report.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "npx @redocly/cli lint plugins/servicenow-openapi.yaml")
}

func TestValidate_OpenAPIMissingFile(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "validate", "openapi", "--path", "spec.yaml")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stdout, "spec.yaml not found")
}

func TestValidate_AllAsJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "adaptiveCards/incident.json", validCard)
	writeFile(t, fsys, "plugins/servicenow-openapi.yaml", openAPIFixture(t))

	res := execute(t, fsys, "validate", "all", "--format", "json")
	require.Equal(t, report.ExitOK, res.code, res.stderr)

	var out struct {
		Verdict string `json:"verdict"`
		Reports []struct {
			DocumentID string `json:"document_id"`
			Kind       string `json:"kind"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "passed", out.Verdict)
	require.Len(t, out.Reports, 2)
	assert.Equal(t, "card", out.Reports[0].Kind)
	assert.Equal(t, "openapi", out.Reports[1].Kind)
}

func TestValidate_AllWithEmptyCardsDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("adaptiveCards", 0o755))
	writeFile(t, fsys, "plugins/servicenow-openapi.yaml", openAPIFixture(t))

	res := execute(t, fsys, "validate")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stderr, "❌ No Adaptive Card templates found in: adaptiveCards")
	assert.NotContains(t, res.stdout, "All documents are valid")
}

func TestValidate_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"validate", "widgets"}},
		{"unknown format", []string{"validate", "cards", "--format", "xml"}},
		{"path with all", []string{"validate", "all", "--path", "x.json"}},
		{"path and dir", []string{"validate", "cards", "--path", "x.json", "--dir", "cards"}},
		{"unknown flag", []string{"validate", "--bogus"}},
		{"missing config file", []string{"--config", "/nonexistent/docvet.yaml", "validate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, afero.NewMemMapFs(), tt.args...)
			assert.Equal(t, report.ExitUsage, res.code)
			assert.Contains(t, res.stderr, "Error:")
		})
	}
}

func TestValidate_CustomKind(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "docvet-rules.toml", `
[[kind]]
name = "plugin"
format = "json"
path = "plugins/servicenow-plugin.json"

  [[kind.rule]]
  name = "Has schema_version"
  message = "Plugin manifest should declare schema_version"
  field = "schema_version"
`)
	writeFile(t, fsys, "plugins/servicenow-plugin.json", `{"name_for_human": "ServiceNow"}`)
	cfg := configFile(t, "rules:\n  file: docvet-rules.toml\n")

	res := execute(t, fsys, "--config", cfg, "validate", "plugin")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stdout, "✗ Has schema_version: Plugin manifest should declare schema_version")
}

func TestPackage_MissingRequiredFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "appPackage/manifest.json", "{}")

	res := execute(t, fsys, "package")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stdout, "✓ Found: appPackage/manifest.json")
	assert.Contains(t, res.stderr, "✗ Missing: appPackage/declarativeAgent.json")
	assert.Contains(t, res.stderr, "✗ Missing: plugins/servicenow-openapi.yaml")
	assert.Contains(t, res.stderr, "Cannot create package.")
	exists, _ := afero.Exists(fsys, "dist/ITHelpdesk-Agent.zip")
	assert.False(t, exists)
}

func TestPackage_Builds(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, f := range []string{
		"appPackage/manifest.json",
		"appPackage/declarativeAgent.json",
		"plugins/servicenow-plugin.json",
		"plugins/servicenow-openapi.yaml",
		"adaptiveCards/incident.json",
	} {
		writeFile(t, fsys, f, "{}")
	}

	res := execute(t, fsys, "package")

	require.Equal(t, report.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "✅ Package created successfully!")
	assert.Contains(t, res.stdout, "📦 Package location: dist/ITHelpdesk-Agent.zip")
	assert.Contains(t, res.stdout, "adding: adaptiveCards/incident.json")
	assert.Contains(t, res.stderr, "Icon files not found")
	exists, _ := afero.Exists(fsys, "dist/ITHelpdesk-Agent.zip")
	assert.True(t, exists)
}

func TestLocalize(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "spec.yaml", "openapi: 3.0.1\nservers:\n  - url: https://example.service-now.com\npaths: {}\n")

	res := execute(t, fsys, "localize", "--in", "spec.yaml", "--out", "out/local.yaml")

	require.Equal(t, report.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Wrote out/local.yaml with servers[0].url=http://localhost:4010")
	data, err := afero.ReadFile(fsys, "out/local.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://localhost:4010")
	assert.NotContains(t, string(data), "service-now.com")
}

func TestLocalize_MissingInput(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "localize", "--in", "nope.yaml")

	assert.Equal(t, report.ExitFail, res.code)
	assert.Contains(t, res.stderr, "nope.yaml")
}

func TestSeed(t *testing.T) {
	t.Run("skips without data", func(t *testing.T) {
		res := execute(t, afero.NewMemMapFs(), "seed")

		assert.Equal(t, report.ExitOK, res.code)
		assert.Contains(t, res.stdout, "Skipping seed.")
	})

	t.Run("writes examples", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		writeFile(t, fsys, "fixtures/incidents.csv", "number,short_description\nINC001,VPN down\n")

		res := execute(t, fsys, "seed", "--data", "fixtures", "--out", "ex")

		require.Equal(t, report.ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Wrote "+filepath.Join("ex", "incidents.json"))
		data, err := afero.ReadFile(fsys, filepath.Join("ex", "incidents.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"number": "INC001"`)
	})
}

func TestRules(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "rules")

	require.Equal(t, report.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "card (Adaptive Card template, json) adaptiveCards/*.json")
	assert.Contains(t, res.stdout, "  - Has $schema: Should have $schema property pointing to adaptivecards.io")
	assert.Contains(t, res.stdout, "openapi (OpenAPI specification, yaml) plugins/servicenow-openapi.yaml")

	res = execute(t, afero.NewMemMapFs(), "rules", "cards")
	require.Equal(t, report.ExitOK, res.code)
	assert.NotContains(t, res.stdout, "openapi")

	res = execute(t, afero.NewMemMapFs(), "rules", "widgets")
	assert.Equal(t, report.ExitUsage, res.code)
}

func TestRuns(t *testing.T) {
	t.Run("history disabled", func(t *testing.T) {
		res := execute(t, afero.NewMemMapFs(), "runs")

		assert.Equal(t, report.ExitOK, res.code)
		assert.Contains(t, res.stdout, "Run history is disabled")
	})

	t.Run("sqlite history", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "history.db")
		cfg := configFile(t, "store:\n  driver: sqlite\n  sqlite_path: "+db+"\n")
		fsys := afero.NewMemMapFs()
		writeFile(t, fsys, "adaptiveCards/incident.json", validCard)

		res := execute(t, fsys, "--config", cfg, "runs")
		require.Equal(t, report.ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stdout, "No runs recorded yet.")

		res = execute(t, fsys, "--config", cfg, "validate", "cards")
		require.Equal(t, report.ExitOK, res.code, res.stderr)

		res = execute(t, fsys, "--config", cfg, "runs", "--limit", "5")
		require.Equal(t, report.ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stdout, "VERDICT")
		assert.Contains(t, res.stdout, "passed")
		assert.Contains(t, res.stdout, "card")
	})
}

func TestToken(t *testing.T) {
	t.Run("auth not configured", func(t *testing.T) {
		res := execute(t, afero.NewMemMapFs(), "token", "ci")
		assert.Equal(t, report.ExitUsage, res.code)
	})

	t.Run("mints a verifiable token", func(t *testing.T) {
		cfgPath := configFile(t, "auth:\n  jwt_secret: cli-test-secret\n  issuer: docvet\n")

		res := execute(t, afero.NewMemMapFs(), "--config", cfgPath, "token", "ci-pipeline", "--ttl", "1h")
		require.Equal(t, report.ExitOK, res.code, res.stderr)

		token := string(bytes.TrimSpace([]byte(res.stdout)))
		claims, err := service.NewAuthService(config.AuthConfig{
			JWTSecret: "cli-test-secret",
			Issuer:    "docvet",
		}).ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "ci-pipeline", claims.Subject)
		assert.Contains(t, res.stderr, "Token for ci-pipeline expires")
	})
}
