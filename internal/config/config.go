// Package config handles cmodfix configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/cmodfix/internal/logger"
)

// ErrInvalidConfig reports a configuration value out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all cmodfix settings.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OutputConfig holds settings for writing the result.
type OutputConfig struct {
	Binary   bool `yaml:"binary"`   // Write the binary container instead of ASCII
	Progress bool `yaml:"progress"` // Show a progress bar on a terminal
}

// PipelineConfig selects the processing stages and their parameters.
type PipelineConfig struct {
	Uniquify        bool    `yaml:"uniquify"`
	Normals         bool    `yaml:"normals"`
	Tangents        bool    `yaml:"tangents"`
	SmoothAngle     float64 `yaml:"smooth_angle"` // Degrees
	Weld            bool    `yaml:"weld"`
	Merge           bool    `yaml:"merge"`
	Optimize        bool    `yaml:"optimize"` // Convert triangle lists to strips
	VertexCacheSize int     `yaml:"vertex_cache_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			SmoothAngle:     60,
			VertexCacheSize: 16,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Pipeline.SmoothAngle < 0 || c.Pipeline.SmoothAngle > 180 {
		return fmt.Errorf("%w: smooth angle %g outside [0, 180] degrees", ErrInvalidConfig, c.Pipeline.SmoothAngle)
	}
	if c.Pipeline.VertexCacheSize <= 0 {
		return fmt.Errorf("%w: vertex cache size %d", ErrInvalidConfig, c.Pipeline.VertexCacheSize)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
