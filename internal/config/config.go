// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Environment variables that override file values.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvRedisURL    = "REDIS_URL"
	EnvStateDir    = "RESUME_TAILOR_STATE_DIR"
	EnvPort        = "PORT"
)

// DefaultStateDir is the file store root used when none is configured.
const DefaultStateDir = ".resume-tailor"

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	Backend     string `json:"backend,omitempty" yaml:"backend,omitempty"`           // file, redis or postgres
	Dir         string `json:"dir,omitempty" yaml:"dir,omitempty"`                   // Root directory for the file backend
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // redis:// URL
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	TTL         string `json:"ttl,omitempty" yaml:"ttl,omitempty"`                   // Entry lifetime for redis, e.g. "72h"
}

// TTLDuration returns the parsed TTL, or zero when unset.
func (s StoreConfig) TTLDuration() time.Duration {
	if s.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(s.TTL)
	if err != nil {
		return 0
	}
	return d
}

// Config represents the configuration loaded from a JSON or YAML file.
// Missing values use defaults; secrets are usually provided via the environment.
type Config struct {
	// Model
	APIKey      string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`         // Gemini API key
	ModelTier   string   `json:"model_tier,omitempty" yaml:"model_tier,omitempty"`   // lite, standard or advanced
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`             // Explicit model name, overrides the tier mapping
	Temperature *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"` // Sampling temperature
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`       // Output language of generated resumes

	// Export and fetching
	ChromePath string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"` // Chrome/Chromium executable
	UseBrowser bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Render SPA job pages in a headless browser

	// Server
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Behavior
	Verbose bool        `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Store   StoreConfig `json:"store" yaml:"store"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ModelTier: "standard",
		Language:  "Hebrew",
		Port:      8080,
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     DefaultStateDir,
			TTL:     "168h",
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file on top of Default.
// The format is chosen by extension: .yaml and .yml are YAML, anything else JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	return &cfg, nil
}

// Resolve loads path (or the defaults when path is empty), applies environment
// overrides and validates the result.
func Resolve(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		d := Default()
		cfg = &d
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with the environment. Empty variables are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Store.RedisURL = v
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		c.Store.Dir = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
// The API key is not required here: only commands that call the model need it.
func (c *Config) Validate() error {
	switch c.ModelTier {
	case "", "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: 'model_tier' must be lite, standard or advanced, got %q", c.ModelTier)
	}

	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.Store.TTL != "" {
		if d, err := time.ParseDuration(c.Store.TTL); err != nil || d < 0 {
			return fmt.Errorf("config error: 'store.ttl' must be a non-negative duration, got %q", c.Store.TTL)
		}
	}

	switch c.Store.Backend {
	case "", BackendFile:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("config error: the redis store needs 'store.redis_url' or %s", EnvRedisURL)
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config error: the postgres store needs 'store.database_url' or %s", EnvDatabaseURL)
		}
	default:
		return fmt.Errorf("config error: unknown store backend %q", c.Store.Backend)
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome executable not found: %s", c.ChromePath)
		}
	}

	return nil
}

// RequireAPIKey returns an error when no Gemini API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s is required (set it in the environment or in the config file)", EnvAPIKey)
	}
	return nil
}
