// Package config loads handoff CLI configuration from environment variables.
//
// Environment Variables:
//   - HANDOFF_TRANSFORM: transform name, or several joined with "," (default "square")
//   - HANDOFF_NUMBER: "int" or "float" (default "int")
//   - HANDOFF_LOG_LEVEL, HANDOFF_LOG_DEV
//   - HANDOFF_METRICS_ADDR: serve /metrics on this address when set
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all CLI configuration.
type Config struct {
	Pipeline PipelineConfig
	Logging  LogConfig
	Metrics  MetricsConfig
}

// PipelineConfig selects the transform and the value type.
type PipelineConfig struct {
	Transform string `envconfig:"HANDOFF_TRANSFORM" default:"square"`
	Number    string `envconfig:"HANDOFF_NUMBER" default:"int"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"HANDOFF_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"HANDOFF_LOG_DEV" default:"false"`
}

// MetricsConfig holds metrics endpoint configuration.
type MetricsConfig struct {
	Address string `envconfig:"HANDOFF_METRICS_ADDR"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Transform: "square",
			Number:    "int",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate checks values envconfig can not check by itself.
func (c *Config) Validate() error {
	switch c.Pipeline.Number {
	case "int", "float":
	default:
		return fmt.Errorf("invalid number type %q: expected int or float", c.Pipeline.Number)
	}

	return nil
}
