// Package config provides tool settings and defaults for gantry.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/gantry/internal/log"
	"github.com/zjrosen/gantry/internal/tracing"
)

// Config holds all settings for the gantry tool itself, as opposed to
// the machine configuration it manages.
type Config struct {
	// ConfigDir is the machine configuration directory holding
	// machine.yaml, packages.yaml and parts.yaml.
	// Default: ~/.gantry
	ConfigDir string `mapstructure:"config_dir"`

	// AutoReload reloads the model when catalog documents change on
	// disk while a watch command is running.
	AutoReload bool `mapstructure:"auto_reload"`

	Watch   WatchConfig   `mapstructure:"watch"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// WatchConfig holds file-watching configuration.
type WatchConfig struct {
	// DebounceMs coalesces bursts of file events into a single reload.
	// Default: 250
	DebounceMs int `mapstructure:"debounce_ms"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/gantry/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// TracerConfig converts the settings into the tracing package's config,
// filling in the default trace file path when none is set.
func (t TracingConfig) TracerConfig() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultTracesFilePath()
	}
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	cfg.SampleRate = t.SampleRate
	return cfg
}

// DefaultConfigDir returns the default machine configuration directory.
// Returns ~/.gantry or empty string if home dir unavailable.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gantry")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/gantry/traces/traces.jsonl or empty string if home
// dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gantry", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		ConfigDir:  DefaultConfigDir(),
		AutoReload: true,
		Watch: WatchConfig{
			DebounceMs: 250,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func Validate(cfg Config) error {
	if cfg.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", cfg.Watch.DebounceMs)
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Gantry Configuration

# Machine configuration directory holding machine.yaml, packages.yaml
# and parts.yaml (default: ~/.gantry)
# config_dir: /path/to/machine/config

# Reload the model when catalog documents change on disk
# (used by 'gantry validate --watch')
auto_reload: true

# File watching
watch:
  debounce_ms: 250   # Coalesce bursts of file events into one reload

# Distributed tracing configuration
# Enables end-to-end visibility into load, save and job operations
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/gantry/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
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
