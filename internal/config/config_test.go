package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644), "Failed to create temp config file")

	return configPath
}

// validConfigYAML overrides part of every section.
const validConfigYAML = `
api:
  base_url: "https://api.example.com"
  timeout_sec: 10
  request_interval_ms: 250
export:
  output: "./out/companies.xlsx"
  limit: 50
  max_results: 200
logging:
  level: "debug"
  format: "json"
server:
  addr: ":9090"
  allowed_origins: ["https://app.example.com"]
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, DefaultSandboxURL, cfg.API.SandboxURL, "unset keys keep defaults")
	assert.Equal(t, 10*time.Second, cfg.API.GetTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.API.GetRequestInterval())
	assert.Equal(t, "./out/companies.xlsx", cfg.Export.Output)
	assert.Equal(t, 50, cfg.Export.Limit)
	assert.Equal(t, 200, cfg.Export.MaxResults)
	assert.Equal(t, DefaultSourceLabel, cfg.Export.SourceLabel)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for name, path := range map[string]string{
		"empty path":   "",
		"missing file": filepath.Join(t.TempDir(), "nope.yaml"),
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	configPath := createTempConfigFile(t, "export:\n  limit: 0\n")

	_, err := LoadConfig(configPath)
	require.ErrorIs(t, err, ErrInvalidLimit)
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "company.openapi.com" }, wantErr: ErrInvalidBaseURL},
		{name: "ftp sandbox url", mutate: func(c *Config) { c.API.SandboxURL = "ftp://x" }, wantErr: ErrInvalidSandboxURL},
		{name: "zero timeout", mutate: func(c *Config) { c.API.TimeoutSec = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative interval", mutate: func(c *Config) { c.API.RequestIntervalMs = -1 }, wantErr: ErrInvalidRequestInterval},
		{name: "no output", mutate: func(c *Config) { c.Export.Output = "" }, wantErr: ErrMissingOutputPath},
		{name: "zero limit", mutate: func(c *Config) { c.Export.Limit = 0 }, wantErr: ErrInvalidLimit},
		{name: "zero max results", mutate: func(c *Config) { c.Export.MaxResults = 0 }, wantErr: ErrInvalidMaxResults},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: ErrInvalidLogLevel},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "no addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: ErrMissingServerAddr},
		{name: "zero write timeout", mutate: func(c *Config) { c.Server.WriteTimeoutSec = 0 }, wantErr: ErrInvalidServerTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_LimitAboveMaximumAllowed(t *testing.T) {
	cfg := Default()
	cfg.Export.Limit = 5000
	cfg.Export.MaxResults = 5000

	assert.NoError(t, cfg.Validate())
}

func TestAPIConfig_BaseURLFor(t *testing.T) {
	api := Default().API

	assert.Equal(t, DefaultBaseURL, api.BaseURLFor(false))
	assert.Equal(t, DefaultSandboxURL, api.BaseURLFor(true))
}

func TestConfig_SaveAndLoad(t *testing.T) {
	cfg := Default()
	cfg.Export.Limit = 42

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_String(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, DefaultBaseURL)
	assert.Contains(t, s, "Limit: 100")
}
