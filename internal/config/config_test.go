package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evemaps/pipecleaner/internal/engine"
	"github.com/evemaps/pipecleaner/internal/esi"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: 5 * time.Second,
			LogLevel:        "info",
		},
		Topology: TopologyConfig{
			Path: "data/systems.json",
		},
		ESI: esi.Config{
			BaseURL:        "https://esi.evetech.net/latest",
			RequestTimeout: 10 * time.Second,
		},
		Engine: engine.Config{
			UpdateInterval: 20 * time.Minute,
			Retry:          5,
			MaxFrames:      72,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:        "invalid port negative",
			mutate:      func(cfg *Config) { cfg.Server.Port = -1 },
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name:        "invalid port too high",
			mutate:      func(cfg *Config) { cfg.Server.Port = 99999 },
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name:        "empty host",
			mutate:      func(cfg *Config) { cfg.Server.Host = "" },
			expectError: true,
			errorMsg:    "host cannot be empty",
		},
		{
			name:        "invalid log level",
			mutate:      func(cfg *Config) { cfg.Server.LogLevel = "verbose" },
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name:        "missing topology path",
			mutate:      func(cfg *Config) { cfg.Topology.Path = "" },
			expectError: true,
			errorMsg:    "topology.path is required",
		},
		{
			name:        "bad engine config",
			mutate:      func(cfg *Config) { cfg.Engine.Retry = -1 },
			expectError: true,
			errorMsg:    "engine",
		},
		{
			name:        "bad esi config",
			mutate:      func(cfg *Config) { cfg.ESI.RequestTimeout = time.Millisecond },
			expectError: true,
			errorMsg:    "esi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestConfig_ValidateSetsComponentDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ESI = esi.Config{}
	cfg.Engine = engine.Config{}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, esi.DefaultBaseURL, cfg.ESI.BaseURL)
	assert.Equal(t, 20*time.Minute, cfg.Engine.UpdateInterval)
	assert.Equal(t, 5, cfg.Engine.Retry)
	assert.Equal(t, 72, cfg.Engine.MaxFrames)
}

func TestLoad(t *testing.T) {
	content := `
server:
  host: localhost
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 5s
  log_level: debug
topology:
  path: data/systems.json
esi:
  request_timeout: 15s
engine:
  update_interval: 20m
  retry: 5
  max_frames: 48
`

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "data/systems.json", cfg.Topology.Path)
	assert.Equal(t, 15*time.Second, cfg.ESI.RequestTimeout)
	assert.Equal(t, 20*time.Minute, cfg.Engine.UpdateInterval)
	assert.Equal(t, 48, cfg.Engine.MaxFrames)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
