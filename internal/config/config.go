// Package config loads scalargrad CLI settings from YAML and builds loggers.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors.
var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidCheck     = errors.New("invalid gradient check settings")
	ErrInvalidFit       = errors.New("invalid fit settings")
)

// Config contains all CLI settings.
type Config struct {
	// Log contains logger settings.
	Log LogConfig `yaml:"log"`

	// Demo contains the leaf values of the demo expression sigmoid((a+b)*(b+c)).
	Demo DemoConfig `yaml:"demo"`

	// Check contains gradient check settings.
	Check CheckConfig `yaml:"check"`

	// Fit contains settings for fitting the demo leaves to a target output.
	Fit FitConfig `yaml:"fit"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DemoConfig holds the demo leaf values.
type DemoConfig struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
}

// CheckConfig contains gradient check settings.
type CheckConfig struct {
	Epsilon   float64 `yaml:"epsilon"`
	Tolerance float64 `yaml:"tolerance"`
	Workers   int     `yaml:"workers"` // 0 means one per CPU, 1 disables parallelism.
}

// FitConfig contains optimizer settings for the fit command.
type FitConfig struct {
	Optimizer string  `yaml:"optimizer"` // sgd or adam
	LR        float64 `yaml:"lr"`
	Momentum  float64 `yaml:"momentum"` // sgd only
	Steps     int     `yaml:"steps"`
	Target    float64 `yaml:"target"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Demo: DemoConfig{A: 0.5, B: 0.3, C: 0.1},
		Check: CheckConfig{
			Epsilon:   1e-6,
			Tolerance: 1e-5,
		},
		Fit: FitConfig{
			Optimizer: "adam",
			LR:        0.05,
			Steps:     200,
			Target:    0.9,
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field with a restricted domain.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	if err := c.Check.Validate(); err != nil {
		return err
	}
	return c.Fit.Validate()
}

// Validate checks the finite-difference step, tolerance and worker count.
func (c CheckConfig) Validate() error {
	if c.Epsilon <= 0 || c.Tolerance <= 0 || c.Workers < 0 {
		return fmt.Errorf("%w: epsilon=%g tolerance=%g workers=%d",
			ErrInvalidCheck, c.Epsilon, c.Tolerance, c.Workers)
	}
	return nil
}

// Validate checks the optimizer name and step settings.
func (f FitConfig) Validate() error {
	switch strings.ToLower(f.Optimizer) {
	case "sgd", "adam":
	default:
		return fmt.Errorf("%w: unknown optimizer %q", ErrInvalidFit, f.Optimizer)
	}
	if f.LR <= 0 || f.Steps <= 0 || f.Momentum < 0 || f.Momentum >= 1 {
		return fmt.Errorf("%w: lr=%g steps=%d momentum=%g", ErrInvalidFit, f.LR, f.Steps, f.Momentum)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}

// NewLogger builds a logger writing to w according to c.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Format)
	}
}
