// Package config loads the server configuration with viper.
//
// Values come, by increasing priority, from the defaults below, an optional
// configuration file (YAML, JSON or TOML) and SCREEN_DETECT_* environment
// variables, e.g. SCREEN_DETECT_QUALITY=800.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SCREEN_DETECT"

// Config is the server configuration.
type Config struct {
	// Quality is the detection quality used when a caller omits it.
	Quality float64 `mapstructure:"quality"`
	// Languages are the OCR languages, as Tesseract codes.
	Languages []string `mapstructure:"languages"`
	// TessdataPrefix is the Tesseract data directory, empty for the default.
	TessdataPrefix string `mapstructure:"tessdata_prefix"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// ConditionCacheSize bounds the number of derived conditions kept.
	ConditionCacheSize int `mapstructure:"condition_cache_size"`
	// Display is the display index captured by default.
	Display int `mapstructure:"display"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("quality", 600.0)
	v.SetDefault("languages", []string{"eng"})
	v.SetDefault("tessdata_prefix", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("condition_cache_size", 64)
	v.SetDefault("display", 0)
}

// Load reads the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Quality <= 0 {
		errs = append(errs, fmt.Errorf("quality must be positive, got %v", c.Quality))
	}
	if c.ConditionCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("condition_cache_size must be positive, got %d", c.ConditionCacheSize))
	}
	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("at least one OCR language is required"))
	}
	if c.Display < 0 {
		errs = append(errs, fmt.Errorf("display must not be negative, got %d", c.Display))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
