// Package config loads the CLI's configuration from environment variables,
// with defaults suitable for a local backend and collective reporting of
// anything invalid.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the runtime configuration of the gitforum CLI.
type Config struct {
	// APIBaseURL is the REST base including the API prefix.
	APIBaseURL string
	// WSEndpoint is the live notification socket URL.
	WSEndpoint string
	// StateDir holds the persisted client state (tokens, preferences).
	StateDir string
	// HTTPTimeout bounds each API request.
	HTTPTimeout time.Duration
	// Debug enables verbose logging.
	Debug bool
}

// StatePath returns the path of the persisted state file.
func (c *Config) StatePath() string {
	return filepath.Join(c.StateDir, "state.json")
}

// Load reads configuration from the environment. Errors are collected and
// reported together so a misconfigured environment surfaces every problem at
// once.
func Load() (*Config, error) {
	var errs []string

	cfg := &Config{
		APIBaseURL: getOptionalEnv("GITFORUM_API_URL", "http://localhost:8000/api"),
		WSEndpoint: getOptionalEnv("GITFORUM_WS_URL", "ws://localhost:8000/ws/notifications/"),
		Debug:      getOptionalEnv("GITFORUM_DEBUG", "") != "",
	}

	cfg.StateDir = getOptionalEnv("GITFORUM_STATE_DIR", "")
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			errs = append(errs, "GITFORUM_STATE_DIR is not set and the home directory is unknown")
		} else {
			cfg.StateDir = filepath.Join(home, ".config", "gitforum")
		}
	}

	cfg.HTTPTimeout = getOptionalDuration("GITFORUM_HTTP_TIMEOUT", 30*time.Second, &errs)

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getOptionalEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid duration in %s: %q", key, value))
		return defaultValue
	}
	return d
}
