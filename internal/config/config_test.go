package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIKey, EnvDatabaseURL, EnvRedisURL, EnvStateDir, EnvPort} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"model_tier": "advanced",
		"language": "English",
		"temperature": 0.4,
		"port": 9090,
		"verbose": true,
		"store": {"backend": "redis", "redis_url": "redis://localhost:6379/0", "ttl": "24h"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "advanced", cfg.ModelTier)
	assert.Equal(t, "English", cfg.Language)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.4, *cfg.Temperature, 0.0001)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.Store.TTLDuration())
	assert.Equal(t, DefaultStateDir, cfg.Store.Dir, "unset fields keep their defaults")
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
model_tier: lite
language: Arabic
chrome_path: ""
store:
  backend: postgres
  database_url: postgres://localhost/resume_tailor
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "lite", cfg.ModelTier)
	assert.Equal(t, "Arabic", cfg.Language)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/resume_tailor", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "empty path",
			path:    func(*testing.T) string { return "" },
			wantErr: "config path is empty",
		},
		{
			name:    "file not found",
			path:    func(*testing.T) string { return "/nonexistent/path/config.json" },
			wantErr: "failed to read config file",
		},
		{
			name:    "invalid JSON",
			path:    func(t *testing.T) string { return writeConfig(t, "config.json", `{ invalid json }`) },
			wantErr: "failed to parse config JSON",
		},
		{
			name:    "invalid YAML",
			path:    func(t *testing.T) string { return writeConfig(t, "config.yml", "store: [unclosed") },
			wantErr: "failed to parse config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	temp := func(v float32) *float32 { return &v }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unknown tier", mutate: func(c *Config) { c.ModelTier = "huge" }, wantErr: "model_tier"},
		{name: "temperature out of range", mutate: func(c *Config) { c.Temperature = temp(3) }, wantErr: "temperature"},
		{name: "negative port", mutate: func(c *Config) { c.Port = -1 }, wantErr: "port"},
		{name: "bad ttl", mutate: func(c *Config) { c.Store.TTL = "forever" }, wantErr: "store.ttl"},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "s3" }, wantErr: "unknown store backend"},
		{name: "redis without url", mutate: func(c *Config) { c.Store.Backend = BackendRedis }, wantErr: "redis_url"},
		{name: "postgres without url", mutate: func(c *Config) { c.Store.Backend = BackendPostgres }, wantErr: "database_url"},
		{name: "missing chrome", mutate: func(c *Config) { c.ChromePath = "/nonexistent/chrome" }, wantErr: "chrome executable not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvRedisURL, "redis://cache:6379/1")
	t.Setenv(EnvDatabaseURL, "postgres://db/rt")
	t.Setenv(EnvStateDir, "/var/lib/resume-tailor")
	t.Setenv(EnvPort, "7070")

	cfg := Default()
	cfg.APIKey = "file-key"
	cfg.ApplyEnv()

	assert.Equal(t, "env-key", cfg.APIKey, "environment wins over the file")
	assert.Equal(t, "redis://cache:6379/1", cfg.Store.RedisURL)
	assert.Equal(t, "postgres://db/rt", cfg.Store.DatabaseURL)
	assert.Equal(t, "/var/lib/resume-tailor", cfg.Store.Dir)
	assert.Equal(t, 7070, cfg.Port)
}

func TestApplyEnv_EmptyKeepsFileValues(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.APIKey = "file-key"
	cfg.ApplyEnv()

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, DefaultStateDir, cfg.Store.Dir)
}

func TestResolve(t *testing.T) {
	clearEnv(t)

	t.Run("no file uses defaults", func(t *testing.T) {
		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Default().Language, cfg.Language)
		assert.Equal(t, BackendFile, cfg.Store.Backend)
	})

	t.Run("environment satisfies backend requirements", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "store:\n  backend: redis\n")
		t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

		cfg, err := Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisURL)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		path := writeConfig(t, "config.json", `{"model_tier": "huge"}`)
		_, err := Resolve(path)
		assert.Error(t, err)
	})
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	err := cfg.RequireAPIKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIKey)

	cfg.APIKey = "key"
	assert.NoError(t, cfg.RequireAPIKey())
}
