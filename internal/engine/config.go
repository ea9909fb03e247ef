//nolint:tagliatelle // superior snake-case yo.
package engine

import (
	"fmt"
	"time"
)

// Config holds polling engine configuration.
type Config struct {
	UpdateInterval time.Duration `yaml:"update_interval"` // Minimum age before a refresh is attempted
	Retry          int           `yaml:"retry"`           // Query attempts during initialization
	MaxFrames      int           `yaml:"max_frames"`      // Snapshots retained per observation kind
}

// Validate validates and sets defaults for Config.
func (c *Config) Validate() error {
	// Set defaults
	if c.UpdateInterval == 0 {
		c.UpdateInterval = 20 * time.Minute
	}

	if c.Retry == 0 {
		c.Retry = 5
	}

	if c.MaxFrames == 0 {
		c.MaxFrames = 72
	}

	// Validate ranges
	if c.UpdateInterval < 1*time.Minute {
		return fmt.Errorf("update_interval must be at least 1 minute, got %v", c.UpdateInterval)
	}

	if c.Retry < 1 {
		return fmt.Errorf("retry must be at least 1, got %d", c.Retry)
	}

	if c.MaxFrames < 1 {
		return fmt.Errorf("max_frames must be at least 1, got %d", c.MaxFrames)
	}

	return nil
}
