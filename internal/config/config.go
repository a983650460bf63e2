// Package config resolves the CLI configuration from flags, POSTURE_*
// environment variables, and an optional YAML file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable: POSTURE_CONCURRENCY,
// POSTURE_LOG_LEVEL, and so on.
const EnvPrefix = "POSTURE"

// Viper keys.
const (
	KeyConcurrency = "concurrency"
	KeyTimeout     = "timeout"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
	KeyOutput      = "output"
	KeyOutputFile  = "output_file"
	KeyPolicy      = "policy"
	KeyColor       = "color"
)

// Output formats.
const (
	OutputTable   = "table"
	OutputJSON    = "json"
	OutputSummary = "summary"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the resolved application configuration.
type Config struct {
	// Concurrency caps the number of checks running at once.
	Concurrency int `mapstructure:"concurrency"`

	// Timeout bounds a whole scan. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`

	Log LogConfig `mapstructure:"log"`

	// Output selects the report renderer: table, json, or summary.
	Output string `mapstructure:"output"`

	// OutputFile, when set, receives the report instead of stdout.
	OutputFile string `mapstructure:"output_file"`

	// Policy is the path of a scan policy file. Empty means no policy.
	Policy string `mapstructure:"policy"`

	// Color is auto, always, or never.
	Color string `mapstructure:"color"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultPath returns $HOME/.config/posture/config.yaml, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "posture", "config.yaml")
}

// New returns a viper instance with defaults and environment binding set.
// Callers bind their command flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyConcurrency, 4)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyOutput, OutputTable)
	v.SetDefault(KeyOutputFile, "")
	v.SetDefault(KeyPolicy, "")
	v.SetDefault(KeyColor, ColorAuto)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path into v and decodes the result. When
// explicit is false a missing file is not an error, so the default path is
// optional; an explicitly requested file must exist.
func Load(v *viper.Viper, path string, explicit bool) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %q: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and ranges. All problems are joined into
// one error.
func (c *Config) Validate() error {
	var errs []error
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyConcurrency, c.Concurrency))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", KeyTimeout))
	}
	switch c.Output {
	case OutputTable, OutputJSON, OutputSummary:
	default:
		errs = append(errs, fmt.Errorf("%s: invalid value %q; valid values: table, json, summary", KeyOutput, c.Output))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("%s: invalid value %q; valid values: auto, always, never", KeyColor, c.Color))
	}
	return errors.Join(errs...)
}
