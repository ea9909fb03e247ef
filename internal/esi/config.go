//nolint:tagliatelle // superior snake-case yo.
package esi

import (
	"fmt"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://esi.evetech.net/latest"

// Config holds ESI client configuration.
type Config struct {
	BaseURL        string        `yaml:"base_url"`        // ESI root URL
	RequestTimeout time.Duration `yaml:"request_timeout"` // HTTP request timeout
	UserAgent      string        `yaml:"user_agent"`      // Sent on every request, ESI etiquette
}

// Validate validates and sets defaults for Config.
func (c *Config) Validate() error {
	// Set defaults
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}

	if c.UserAgent == "" {
		c.UserAgent = "pipecleaner/1.0"
	}

	// Validate ranges
	if c.RequestTimeout < 1*time.Second {
		return fmt.Errorf("request_timeout must be at least 1 second, got %v", c.RequestTimeout)
	}

	return nil
}

// HTTPClient creates an HTTP client with configured timeout.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{
		Timeout: c.RequestTimeout,
	}
}
