package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Paths    PathsConfig
	Validate ValidateConfig
	Log      LogConfig
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	S3       S3Config
	Email    EmailConfig
	Package  PackageConfig
	Localize LocalizeConfig
	Seed     SeedConfig
	Rules    RulesConfig
}

// PathsConfig locates the documents validated by the built-in kinds.
type PathsConfig struct {
	CardsDir    string `mapstructure:"cards_dir"`
	CardsExt    string `mapstructure:"cards_ext"`
	OpenAPIFile string `mapstructure:"openapi_file"`
}

// ValidateConfig holds batch validation settings.
type ValidateConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Format      string        `mapstructure:"format"`
	Debounce    time.Duration `mapstructure:"debounce"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// ServerConfig holds HTTP server settings for `docvet serve`.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// AuthConfig enables bearer-token auth on the API when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Enabled reports whether API auth is configured.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// StoreConfig selects where run history is persisted.
type StoreConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	DB         DBConfig
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings used to publish packaged artifacts.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// EmailConfig holds failed-run notification settings.
type EmailConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// PackageConfig describes the deployment archive.
type PackageConfig struct {
	Root        string   `mapstructure:"root"`
	Required    []string `mapstructure:"required"`
	Icons       []string `mapstructure:"icons"`
	CardsDir    string   `mapstructure:"cards_dir"`
	OutputDir   string   `mapstructure:"output_dir"`
	ArchiveName string   `mapstructure:"archive_name"`
}

// LocalizeConfig drives the spec localizer.
type LocalizeConfig struct {
	In   string `mapstructure:"in"`
	Out  string `mapstructure:"out"`
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// URL returns the synthesized local server URL.
func (l *LocalizeConfig) URL() string {
	return fmt.Sprintf("http://%s:%s", l.Host, l.Port)
}

// SeedConfig drives the example seeder.
type SeedConfig struct {
	DataDir string `mapstructure:"data_dir"`
	OutDir  string `mapstructure:"out_dir"`
}

// RulesConfig points at an optional TOML file with extra document kinds.
type RulesConfig struct {
	File string `mapstructure:"file"`
}

// Load reads configuration from defaults, an optional config file, and
// environment variables with the DOCVET_ prefix. Environment wins over the file.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCVET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Path defaults
	v.SetDefault("paths.cards_dir", "adaptiveCards")
	v.SetDefault("paths.cards_ext", ".json")
	v.SetDefault("paths.openapi_file", "plugins/servicenow-openapi.yaml")

	// Validate defaults
	v.SetDefault("validate.concurrency", 1)
	v.SetDefault("validate.format", "text")
	v.SetDefault("validate.debounce", "300ms")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_bytes", 5<<20)
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "docvet")
	v.SetDefault("auth.token_ttl", "720h")

	// Store defaults
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.sqlite_path", ".docvet/history.db")
	v.SetDefault("store.db.host", "localhost")
	v.SetDefault("store.db.port", 5432)
	v.SetDefault("store.db.user", "docvet")
	v.SetDefault("store.db.password", "docvet_secret")
	v.SetDefault("store.db.name", "docvet_db")
	v.SetDefault("store.db.sslmode", "disable")
	v.SetDefault("store.db.max_open", 10)
	v.SetDefault("store.db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "packages")
	v.SetDefault("s3.endpoint", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@example.com")
	v.SetDefault("email.from_name", "docvet")
	v.SetDefault("email.recipients", "")

	// Package defaults
	v.SetDefault("package.root", ".")
	v.SetDefault("package.required", "appPackage/manifest.json,appPackage/declarativeAgent.json,plugins/servicenow-plugin.json,plugins/servicenow-openapi.yaml")
	v.SetDefault("package.icons", "appPackage/color.png,appPackage/outline.png")
	v.SetDefault("package.cards_dir", "adaptiveCards")
	v.SetDefault("package.output_dir", "dist")
	v.SetDefault("package.archive_name", "ITHelpdesk-Agent.zip")

	// Localize defaults
	v.SetDefault("localize.in", "openapi.yaml")
	v.SetDefault("localize.out", ".tmp/openapi.local.yaml")
	v.SetDefault("localize.host", "localhost")
	v.SetDefault("localize.port", "4010")

	// Seed defaults
	v.SetDefault("seed.data_dir", "data")
	v.SetDefault("seed.out_dir", "examples")

	v.SetDefault("rules.file", "")

	// Bind environment variables explicitly for nested keys. The localizer keys
	// also honour the variable names the deployment scripts have always used.
	envBindings := map[string][]string{
		"paths.cards_dir":       {"DOCVET_PATHS_CARDS_DIR"},
		"paths.cards_ext":       {"DOCVET_PATHS_CARDS_EXT"},
		"paths.openapi_file":    {"DOCVET_PATHS_OPENAPI_FILE"},
		"validate.concurrency":  {"DOCVET_VALIDATE_CONCURRENCY"},
		"validate.format":       {"DOCVET_VALIDATE_FORMAT"},
		"validate.debounce":     {"DOCVET_VALIDATE_DEBOUNCE"},
		"log.level":             {"DOCVET_LOG_LEVEL"},
		"log.format":            {"DOCVET_LOG_FORMAT"},
		"log.file":              {"DOCVET_LOG_FILE"},
		"log.max_size_mb":       {"DOCVET_LOG_MAX_SIZE_MB"},
		"log.max_backups":       {"DOCVET_LOG_MAX_BACKUPS"},
		"server.port":           {"DOCVET_SERVER_PORT"},
		"server.read_timeout":   {"DOCVET_SERVER_READ_TIMEOUT"},
		"server.write_timeout":  {"DOCVET_SERVER_WRITE_TIMEOUT"},
		"server.environment":    {"DOCVET_SERVER_ENVIRONMENT"},
		"server.max_body_bytes": {"DOCVET_SERVER_MAX_BODY_BYTES"},
		"server.cors_origins":   {"DOCVET_SERVER_CORS_ORIGINS"},
		"auth.jwt_secret":       {"DOCVET_AUTH_JWT_SECRET"},
		"auth.issuer":           {"DOCVET_AUTH_ISSUER"},
		"auth.token_ttl":        {"DOCVET_AUTH_TOKEN_TTL"},
		"store.driver":          {"DOCVET_STORE_DRIVER"},
		"store.sqlite_path":     {"DOCVET_STORE_SQLITE_PATH"},
		"store.db.host":         {"DOCVET_STORE_DB_HOST"},
		"store.db.port":         {"DOCVET_STORE_DB_PORT"},
		"store.db.user":         {"DOCVET_STORE_DB_USER"},
		"store.db.password":     {"DOCVET_STORE_DB_PASSWORD"},
		"store.db.name":         {"DOCVET_STORE_DB_NAME"},
		"store.db.sslmode":      {"DOCVET_STORE_DB_SSLMODE"},
		"store.db.max_open":     {"DOCVET_STORE_DB_MAX_OPEN"},
		"store.db.max_idle":     {"DOCVET_STORE_DB_MAX_IDLE"},
		"s3.region":             {"DOCVET_S3_REGION"},
		"s3.bucket":             {"DOCVET_S3_BUCKET"},
		"s3.prefix":             {"DOCVET_S3_PREFIX"},
		"s3.endpoint":           {"DOCVET_S3_ENDPOINT"},
		"s3.access_key":         {"DOCVET_S3_ACCESS_KEY"},
		"s3.secret_key":         {"DOCVET_S3_SECRET_KEY"},
		"email.provider":        {"DOCVET_EMAIL_PROVIDER"},
		"email.region":          {"DOCVET_EMAIL_REGION"},
		"email.from_address":    {"DOCVET_EMAIL_FROM_ADDRESS"},
		"email.from_name":       {"DOCVET_EMAIL_FROM_NAME"},
		"email.recipients":      {"DOCVET_EMAIL_RECIPIENTS"},
		"package.root":          {"DOCVET_PACKAGE_ROOT"},
		"package.required":      {"DOCVET_PACKAGE_REQUIRED"},
		"package.icons":         {"DOCVET_PACKAGE_ICONS"},
		"package.cards_dir":     {"DOCVET_PACKAGE_CARDS_DIR"},
		"package.output_dir":    {"DOCVET_PACKAGE_OUTPUT_DIR"},
		"package.archive_name":  {"DOCVET_PACKAGE_ARCHIVE_NAME"},
		"localize.in":           {"DOCVET_LOCALIZE_IN", "OPENAPI_IN"},
		"localize.out":          {"DOCVET_LOCALIZE_OUT", "OPENAPI_OUT"},
		"localize.host":         {"DOCVET_LOCALIZE_HOST", "API_HOST"},
		"localize.port":         {"DOCVET_LOCALIZE_PORT", "API_PORT"},
		"seed.data_dir":         {"DOCVET_SEED_DATA_DIR"},
		"seed.out_dir":          {"DOCVET_SEED_OUT_DIR"},
		"rules.file":            {"DOCVET_RULES_FILE"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := &Config{}
	cfg.Paths = PathsConfig{
		CardsDir:    v.GetString("paths.cards_dir"),
		CardsExt:    v.GetString("paths.cards_ext"),
		OpenAPIFile: v.GetString("paths.openapi_file"),
	}
	cfg.Validate = ValidateConfig{
		Concurrency: v.GetInt("validate.concurrency"),
		Format:      v.GetString("validate.format"),
		Debounce:    v.GetDuration("validate.debounce"),
	}
	cfg.Log = LogConfig{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
	}
	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxBodyBytes: v.GetInt64("server.max_body_bytes"),
		CORSOrigins:  splitList(v.GetStringSlice("server.cors_origins")),
	}
	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
		TokenTTL:  v.GetDuration("auth.token_ttl"),
	}
	cfg.Store = StoreConfig{
		Driver:     v.GetString("store.driver"),
		SQLitePath: v.GetString("store.sqlite_path"),
		DB: DBConfig{
			Host:     v.GetString("store.db.host"),
			Port:     v.GetInt("store.db.port"),
			User:     v.GetString("store.db.user"),
			Password: v.GetString("store.db.password"),
			Name:     v.GetString("store.db.name"),
			SSLMode:  v.GetString("store.db.sslmode"),
			MaxOpen:  v.GetInt("store.db.max_open"),
			MaxIdle:  v.GetInt("store.db.max_idle"),
		},
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Prefix:    v.GetString("s3.prefix"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		Recipients:  splitList(v.GetStringSlice("email.recipients")),
	}
	cfg.Package = PackageConfig{
		Root:        v.GetString("package.root"),
		Required:    splitList(v.GetStringSlice("package.required")),
		Icons:       splitList(v.GetStringSlice("package.icons")),
		CardsDir:    v.GetString("package.cards_dir"),
		OutputDir:   v.GetString("package.output_dir"),
		ArchiveName: v.GetString("package.archive_name"),
	}
	cfg.Localize = LocalizeConfig{
		In:   v.GetString("localize.in"),
		Out:  v.GetString("localize.out"),
		Host: v.GetString("localize.host"),
		Port: v.GetString("localize.port"),
	}
	cfg.Seed = SeedConfig{
		DataDir: v.GetString("seed.data_dir"),
		OutDir:  v.GetString("seed.out_dir"),
	}
	cfg.Rules = RulesConfig{
		File: v.GetString("rules.file"),
	}

	return cfg, nil
}

// splitList flattens comma-separated entries, as env values and defaults arrive
// as a single string while config files may carry real lists.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, s := range strings.Split(item, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
