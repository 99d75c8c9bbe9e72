// Package env loads the browser API settings from environment variables.
package env

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. REBEL_CDP_URL.
// Nested sections add their own name: REBEL_LOG_LEVEL, REBEL_CDP_TIMEOUT.
const Prefix = "REBEL"

// Config holds the settings of the browser API and its command-line tool.
type Config struct {
	Log     LogConfig
	CDP     CDPConfig
	Browser BrowserConfig

	// UserAgent overrides the user agent reported by the environment.
	UserAgent string `split_words:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level          string `default:"info"`
	CategoryFilter string `split_words:"true"`
}

// CDPConfig holds the DevTools connection configuration.
type CDPConfig struct {
	URL     string
	Timeout time.Duration `default:"10s"`
}

// BrowserConfig holds the settings used to launch a browser when no
// DevTools endpoint is configured.
type BrowserConfig struct {
	Path     string
	Args     []string
	StartURL string `split_words:"true" default:"rebel://newtab"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading %s environment: %w", Prefix, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		CDP: CDPConfig{
			Timeout: 10 * time.Second,
		},
		Browser: BrowserConfig{
			StartURL: "rebel://newtab",
		},
	}
}
