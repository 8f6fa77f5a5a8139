package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentbus/logging"
)

func noEnvFiles(o *LoadOptions) { o.EnvFiles = nil }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "Design a landing page for a productivity app", cfg.Goal)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "logs", cfg.Traces.Dir)
	assert.Equal(t, MemoryBackendFile, cfg.Memory.Backend)
	assert.Equal(t, "memory", cfg.Memory.Dir)
	assert.Equal(t, ":3001", cfg.Dashboard.Addr)
	assert.Equal(t, []string{"*"}, cfg.Dashboard.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", noEnvFiles)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("TEST_AGENTBUS_GOAL", "Ship the beta")
	path := writeFile(t, "agentbus.yaml", `
goal: ${TEST_AGENTBUS_GOAL}
workers: 4
logging:
  level: debug
  format: json
  backend: zap
memory:
  backend: memory
dashboard:
  allowed_origins: ["http://localhost:3000"]
`)

	cfg, err := Load(path, noEnvFiles)
	require.NoError(t, err)
	assert.Equal(t, "Ship the beta", cfg.Goal)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json", Backend: "zap"}, cfg.Logging)
	assert.Equal(t, MemoryBackendMemory, cfg.Memory.Backend)
	assert.Equal(t, "memory", cfg.Memory.Dir)
	assert.Equal(t, "logs", cfg.Traces.Dir)
	assert.Equal(t, ":3001", cfg.Dashboard.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Dashboard.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "agentbus.yaml", "workers: 2\nlogging:\n  level: error\n  format: text\n  backend: slog\n")
	t.Setenv(EnvLogDir, "/var/log/agentbus")
	t.Setenv(EnvMemoryDir, "/var/lib/agentbus")
	t.Setenv(EnvMemoryBackend, "memory")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogBackend, "zap")
	t.Setenv(EnvDashboardAddr, "127.0.0.1:9000")
	t.Setenv(EnvWorkers, "32")

	cfg, err := Load(path, noEnvFiles)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/agentbus", cfg.Traces.Dir)
	assert.Equal(t, "/var/lib/agentbus", cfg.Memory.Dir)
	assert.Equal(t, "memory", cfg.Memory.Backend)
	assert.Equal(t, LoggingConfig{Level: "warn", Format: "json", Backend: "zap"}, cfg.Logging)
	assert.Equal(t, "127.0.0.1:9000", cfg.Dashboard.Addr)
	assert.Equal(t, 32, cfg.Workers)
}

func TestLoad_EnvFile(t *testing.T) {
	// registered so the value set by the env file is cleared afterwards
	t.Setenv(EnvDashboardAddr, "")
	require.NoError(t, os.Unsetenv(EnvDashboardAddr))

	envFile := writeFile(t, ".env", EnvDashboardAddr+"=:4000\n")

	cfg, err := Load("", func(o *LoadOptions) { o.EnvFiles = []string{envFile, filepath.Join(t.TempDir(), "missing.env")} })
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Dashboard.Addr)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFiles)
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "workers: [\n"), noEnvFiles)
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("invalid workers env", func(t *testing.T) {
		t.Setenv(EnvWorkers, "many")
		_, err := Load("", noEnvFiles)
		assert.ErrorContains(t, err, EnvWorkers)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }, "level"},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }, "format"},
		{"unknown log backend", func(c *Config) { c.Logging.Backend = "logrus" }, "backend"},
		{"unknown memory backend", func(c *Config) { c.Memory.Backend = "redis" }, "backend"},
		{"file memory without dir", func(c *Config) { c.Memory.Dir = "" }, "dir"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"empty trace dir", func(c *Config) { c.Traces.Dir = "" }, "dir"},
		{"empty addr", func(c *Config) { c.Dashboard.Addr = "" }, "addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	t.Run("in-memory store needs no dir", func(t *testing.T) {
		cfg := Default()
		cfg.Memory = MemoryConfig{Backend: MemoryBackendMemory}
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Logging = LoggingConfig{Level: "debug", Format: "json", Backend: "zap"}

	lc := cfg.LoggerConfig()
	assert.Equal(t, logging.LogLevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "zap", lc.Backend)
	assert.NotNil(t, lc.Output)
}
