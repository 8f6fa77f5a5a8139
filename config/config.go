package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentbus/logging"
)

// Memory backends.
const (
	MemoryBackendFile   = "file"
	MemoryBackendMemory = "memory"
)

// Environment variables overriding file values.
const (
	EnvLogDir        = "AGENTBUS_LOG_DIR"
	EnvMemoryDir     = "AGENTBUS_MEMORY_DIR"
	EnvMemoryBackend = "AGENTBUS_MEMORY_BACKEND"
	EnvLogLevel      = "AGENTBUS_LOG_LEVEL"
	EnvLogFormat     = "AGENTBUS_LOG_FORMAT"
	EnvLogBackend    = "AGENTBUS_LOG_BACKEND"
	EnvDashboardAddr = "AGENTBUS_DASHBOARD_ADDR"
	EnvWorkers       = "AGENTBUS_WORKERS"
)

const (
	defaultGoal       = "Design a landing page for a productivity app"
	defaultWorkers    = 16
	defaultDashboard  = ":3001"
	defaultTraceDir   = "logs"
	defaultMemoryDir  = "memory"
	defaultEnvFile    = ".env"
	defaultLogBackend = "slog"
)

// LoggingConfig selects the process logger.
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	Format  string `yaml:"format" json:"format"`
	Backend string `yaml:"backend" json:"backend"`
}

// TracesConfig locates the per-trace message logs.
type TracesConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// MemoryConfig selects where agent memory is kept.
type MemoryConfig struct {
	Backend string `yaml:"backend" json:"backend"`
	Dir     string `yaml:"dir" json:"dir"`
}

// DashboardConfig configures the trace API server.
type DashboardConfig struct {
	Addr           string   `yaml:"addr" json:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

// Config represents the main configuration structure.
type Config struct {
	Goal      string          `yaml:"goal" json:"goal"`
	Workers   int             `yaml:"workers" json:"workers"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Traces    TracesConfig    `yaml:"traces" json:"traces"`
	Memory    MemoryConfig    `yaml:"memory" json:"memory"`
	Dashboard DashboardConfig `yaml:"dashboard" json:"dashboard"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Goal:    defaultGoal,
		Workers: defaultWorkers,
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "text",
			Backend: defaultLogBackend,
		},
		Traces: TracesConfig{Dir: defaultTraceDir},
		Memory: MemoryConfig{
			Backend: MemoryBackendFile,
			Dir:     defaultMemoryDir,
		},
		Dashboard: DashboardConfig{
			Addr:           defaultDashboard,
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadOptions configures Load.
type LoadOptions struct {
	// EnvFiles are loaded (without overriding existing variables) before
	// overrides are applied. Missing files are skipped.
	EnvFiles []string
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), .env files and AGENTBUS_* variables, in that order of
// precedence, and validates it.
func Load(path string, optFns ...func(o *LoadOptions)) (*Config, error) {
	opts := LoadOptions{EnvFiles: []string{defaultEnvFile}}
	for _, fn := range optFns {
		fn(&opts)
	}

	for _, f := range opts.EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Traces.Dir, EnvLogDir)
	setString(&c.Memory.Dir, EnvMemoryDir)
	setString(&c.Memory.Backend, EnvMemoryBackend)
	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.Format, EnvLogFormat)
	setString(&c.Logging.Backend, EnvLogBackend)
	setString(&c.Dashboard.Addr, EnvDashboardAddr)

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// LoggerConfig converts the logging section for logging.New. Call Validate
// first; unknown levels fall back to info.
func (c *Config) LoggerConfig() *logging.Config {
	cfg := logging.DefaultConfig()
	level, _ := logging.ParseLevel(c.Logging.Level)
	cfg.Level = level
	cfg.Format = c.Logging.Format
	cfg.Backend = c.Logging.Backend
	return cfg
}
