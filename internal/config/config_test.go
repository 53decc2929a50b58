package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvet/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "adaptiveCards", cfg.Paths.CardsDir)
	assert.Equal(t, ".json", cfg.Paths.CardsExt)
	assert.Equal(t, "plugins/servicenow-openapi.yaml", cfg.Paths.OpenAPIFile)
	assert.Equal(t, 1, cfg.Validate.Concurrency)
	assert.Equal(t, "text", cfg.Validate.Format)
	assert.Equal(t, 300*time.Millisecond, cfg.Validate.Debounce)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{
		"appPackage/manifest.json",
		"appPackage/declarativeAgent.json",
		"plugins/servicenow-plugin.json",
		"plugins/servicenow-openapi.yaml",
	}, cfg.Package.Required)
	assert.Equal(t, []string{"appPackage/color.png", "appPackage/outline.png"}, cfg.Package.Icons)
	assert.Equal(t, "dist", cfg.Package.OutputDir)
	assert.Equal(t, "ITHelpdesk-Agent.zip", cfg.Package.ArchiveName)
	assert.Equal(t, "openapi.yaml", cfg.Localize.In)
	assert.Equal(t, ".tmp/openapi.local.yaml", cfg.Localize.Out)
	assert.Equal(t, "http://localhost:4010", cfg.Localize.URL())
	assert.Equal(t, "data", cfg.Seed.DataDir)
	assert.Equal(t, "examples", cfg.Seed.OutDir)
	assert.Empty(t, cfg.Email.Recipients)
}

func TestLoad_LegacyLocalizerEnv(t *testing.T) {
	t.Setenv("OPENAPI_IN", "spec/in.yaml")
	t.Setenv("OPENAPI_OUT", "spec/out.yaml")
	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("API_PORT", "9000")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "spec/in.yaml", cfg.Localize.In)
	assert.Equal(t, "spec/out.yaml", cfg.Localize.Out)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Localize.URL())
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("DOCVET_LOCALIZE_PORT", "9100")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Localize.Port)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docvet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  cards_dir: cards
validate:
  concurrency: 4
  format: json
store:
  driver: sqlite
  sqlite_path: /var/lib/docvet/history.db
email:
  recipients:
    - ops@example.com
    - qa@example.com
auth:
  jwt_secret: s3cret
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cards", cfg.Paths.CardsDir)
	assert.Equal(t, 4, cfg.Validate.Concurrency)
	assert.Equal(t, "json", cfg.Validate.Format)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/var/lib/docvet/history.db", cfg.Store.SQLitePath)
	assert.Equal(t, []string{"ops@example.com", "qa@example.com"}, cfg.Email.Recipients)
	assert.True(t, cfg.Auth.Enabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docvet.toml")
	require.NoError(t, os.WriteFile(path, []byte("[validate]\nconcurrency = 4\n"), 0o644))
	t.Setenv("DOCVET_VALIDATE_CONCURRENCY", "8")
	t.Setenv("DOCVET_EMAIL_RECIPIENTS", "a@example.com, b@example.com")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Validate.Concurrency)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.Recipients)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", db.DSN())
}
