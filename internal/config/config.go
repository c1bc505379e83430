// Package config provides configuration types and defaults for invsources.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/zjrosen/invsources/internal/log"
	"github.com/zjrosen/invsources/internal/presentation"
	"github.com/zjrosen/invsources/internal/tracing"
)

// ErrUnsupportedFormat is returned when output.format names no known format.
var ErrUnsupportedFormat = presentation.ErrUnsupportedFormat

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration options for invsources.
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Registry RegistryConfig `mapstructure:"registry"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// OutputConfig controls how command results are written.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "json" (default), "yaml" or "table"
}

// RegistryConfig controls how the plugin registry is populated.
type RegistryConfig struct {
	// InjectorsFile is an optional YAML file of extra injectors registered
	// after the built-in ones. Relative paths resolve against the working dir.
	InjectorsFile string `mapstructure:"injectors_file"`

	// SkipBuiltin leaves the embedded injectors out, so InjectorsFile must
	// describe the whole registry, including constructed.
	SkipBuiltin bool `mapstructure:"skip_builtin"`
}

// LogConfig holds file logging options.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Level   string `mapstructure:"level"` // debug, info, warn, error
}

// DefaultLogPath is used when logging is enabled without a path.
const DefaultLogPath = "invsources.log"

// DefaultConfigPath is where a missing config is created.
const DefaultConfigPath = ".invsources/config.yaml"

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/invsources/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "invsources", "traces", "traces.jsonl")
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Output: OutputConfig{
			Format: string(presentation.FormatJSON),
		},
		Log: LogConfig{
			Enabled: false,
			Path:    DefaultLogPath,
			Level:   "debug",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// OutputFormat returns the parsed output format.
func (c Config) OutputFormat() (presentation.Format, error) {
	return presentation.ParseFormat(c.Output.Format)
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if _, err := c.OutputFormat(); err != nil {
		return fmt.Errorf("%w: output.format: %w", ErrInvalidConfig, err)
	}
	if err := ValidateLog(c.Log); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ValidateLog checks the log section. Empty values use defaults.
func ValidateLog(cfg LogConfig) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Level)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg tracing.Config) error {
	if math.IsNaN(cfg.SampleRate) || cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	switch cfg.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
	}

	if cfg.Enabled && cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// ResolveTracing fills in runtime-derived tracing values.
func (c Config) ResolveTracing() tracing.Config {
	cfg := c.Tracing
	if cfg.Enabled && cfg.Exporter == "file" && cfg.FilePath == "" {
		cfg.FilePath = DefaultTracesFilePath()
	}
	return cfg
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# invsources configuration

# Output settings
output:
  format: json  # json (default), yaml or table

# Plugin registry
registry:
  # Extra injectors registered after the built-in ones.
  # injectors_file: ./injectors.yaml
  #
  # File format:
  #   injectors:
  #     - id: my_cloud
  #       namespace: example
  #       collection: cloud
  #       plugin_name: inventory
  #       description: My Cloud
  skip_builtin: false  # true: injectors_file is the whole registry

# File logging (also enabled by --debug)
log:
  enabled: false
  path: invsources.log
  level: debug  # debug, info, warn, error

# Tracing of catalogue computations
tracing:
  enabled: false                 # Enable/disable tracing (default: false)
  exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
  # file_path: ~/.config/invsources/traces/traces.jsonl
  otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
  sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
  service_name: invsources
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
