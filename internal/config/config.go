// Package config handles scenetool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/scenegraph/pkg/math"
)

// Config holds all scenetool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Import  ImportConfig  `yaml:"import"`
	Inspect InspectConfig `yaml:"inspect"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ImportConfig holds asset import settings.
type ImportConfig struct {
	BaseDir   string  `yaml:"base_dir"`   // Overrides the document directory for relative URIs
	Validate  bool    `yaml:"validate"`   // Check the node graph after import
	RootScale float32 `yaml:"root_scale"` // Uniform scale of the scene root transform
}

// InspectConfig holds output settings for the inspection commands.
type InspectConfig struct {
	Precision int  `yaml:"precision"` // Decimal places for matrices and vectors
	ShowNames bool `yaml:"show_names"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Import: ImportConfig{
			Validate:  true,
			RootScale: 1,
		},
		Inspect: InspectConfig{
			Precision: 3,
			ShowNames: true,
		},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Import.RootScale <= 0 {
		return fmt.Errorf("import.root_scale must be positive, got %v", c.Import.RootScale)
	}
	if c.Inspect.Precision < 0 || c.Inspect.Precision > 9 {
		return fmt.Errorf("inspect.precision must be between 0 and 9, got %d", c.Inspect.Precision)
	}
	return nil
}

// RootTransform returns the scene root transform described by the import
// settings.
func (c ImportConfig) RootTransform() math.Mat4 {
	s := c.RootScale
	if s == 0 {
		s = 1
	}
	return math.Scale(s, s, s)
}
