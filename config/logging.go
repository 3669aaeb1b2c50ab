package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LoggingConfig defines settings for the process logger.
type LoggingConfig struct {
	// Level is a zerolog level name such as "debug" or "warn".
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
