// Package config provides configuration management for the company exporter.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default endpoints of the company search API.
const (
	DefaultBaseURL     = "https://company.openapi.com"
	DefaultSandboxURL  = "https://test.company.openapi.com"
	DefaultOutput      = "openapi_companies.xlsx"
	DefaultSourceLabel = "Openapi /IT-search"
)

// Configuration validation errors.
var (
	ErrInvalidBaseURL         = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidSandboxURL      = errors.New("api.sandbox_url must be an absolute http(s) URL")
	ErrInvalidTimeout         = errors.New("api.timeout_sec must be at least 1")
	ErrInvalidRequestInterval = errors.New("api.request_interval_ms must be non-negative")
	ErrMissingOutputPath      = errors.New("export.output is required")
	ErrInvalidLimit           = errors.New("export.limit must be at least 1")
	ErrInvalidMaxResults      = errors.New("export.max_results must be at least 1")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'text' or 'json'")
	ErrMissingServerAddr      = errors.New("server.addr is required")
	ErrInvalidServerTimeout   = errors.New("server timeouts must be at least 1 second")
)

// Config represents the complete exporter configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// APIConfig describes how to reach the search API.
type APIConfig struct {
	BaseURL           string `yaml:"base_url"`
	SandboxURL        string `yaml:"sandbox_url"`
	UserAgent         string `yaml:"user_agent"`
	TimeoutSec        int    `yaml:"timeout_sec"`
	RequestIntervalMs int    `yaml:"request_interval_ms"`
}

// ExportConfig holds the defaults of one export run.
type ExportConfig struct {
	Output      string `yaml:"output"`
	SourceLabel string `yaml:"source_label"`
	Limit       int    `yaml:"limit"`
	MaxResults  int    `yaml:"max_results"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP export service.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
}

// Default returns a configuration with every value set.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			SandboxURL:        DefaultSandboxURL,
			UserAgent:         "companyexport/1.0",
			TimeoutSec:        30,
			RequestIntervalMs: 0,
		},
		Export: ExportConfig{
			Output:      DefaultOutput,
			SourceLabel: DefaultSourceLabel,
			Limit:       100,
			MaxResults:  500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 300,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
// An empty path or a missing file yields the defaults.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()
	if filepath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !isHTTPURL(c.API.BaseURL) {
		return ErrInvalidBaseURL
	}

	if !isHTTPURL(c.API.SandboxURL) {
		return ErrInvalidSandboxURL
	}

	if c.API.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.API.RequestIntervalMs < 0 {
		return ErrInvalidRequestInterval
	}

	if c.Export.Output == "" {
		return ErrMissingOutputPath
	}

	// Limits above the API maximum are clamped later, not rejected.
	if c.Export.Limit < 1 {
		return ErrInvalidLimit
	}

	if c.Export.MaxResults < 1 {
		return ErrInvalidMaxResults
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Server.Addr == "" {
		return ErrMissingServerAddr
	}

	if c.Server.ReadTimeoutSec < 1 || c.Server.WriteTimeoutSec < 1 {
		return ErrInvalidServerTimeout
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// BaseURLFor returns the sandbox URL when sandbox is set, the production URL otherwise.
func (a *APIConfig) BaseURLFor(sandbox bool) string {
	if sandbox {
		return a.SandboxURL
	}

	return a.BaseURL
}

// GetTimeout returns the per-request timeout.
func (a *APIConfig) GetTimeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// GetRequestInterval returns the minimum spacing between requests.
func (a *APIConfig) GetRequestInterval() time.Duration {
	return time.Duration(a.RequestIntervalMs) * time.Millisecond
}

// GetReadTimeout returns the server read timeout.
func (s *ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

// GetWriteTimeout returns the server write timeout.
func (s *ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, Limit: %d, MaxResults: %d, Output: %s}",
		c.API.BaseURL,
		c.Export.Limit,
		c.Export.MaxResults,
		c.Export.Output,
	)
}
