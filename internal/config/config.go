// Package config provides oscroute configuration loaded from environment
// variables, and hot reload of the route declaration file.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// EnvPrefix is the prefix of every environment variable read by LoadConfig.
const EnvPrefix = "OSCROUTE"

const logPrefix = "config:LoadConfig"

// Config holds oscroute configuration.
type Config struct {
	// Route declaration file (YAML)
	RoutesFile string `envconfig:"ROUTES_FILE" default:"routes.yaml"`

	// Reload the table when RoutesFile changes
	Watch bool `envconfig:"WATCH" default:"false"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

// LoadConfig loads configuration from OSCROUTE_* environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.RoutesFile == "" {
		return fmt.Errorf("%s - %s_ROUTES_FILE must not be empty", logPrefix, EnvPrefix)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s - %s_LOG_LEVEL: %w", logPrefix, EnvPrefix, err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%s - %s_LOG_FORMAT must be console or json, got %q", logPrefix, EnvPrefix, c.LogFormat)
	}
	return nil
}

// Logger builds the logger described by the configuration, writing to w.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if c.LogFormat == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
