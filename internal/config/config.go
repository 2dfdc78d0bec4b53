// Package config loads application configuration from the environment and
// initializes logging.
package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration. Values come from environment
// variables with the prefix "TRAILHEAD_".
// Example: TRAILHEAD_SERVICE_URL=https://api.example.com TRAILHEAD_LOG_LEVEL=debug .
type Config struct {
	ServiceURL string `envconfig:"SERVICE_URL" default:"http://localhost:8000"`
	LogLevel   string `envconfig:"LOG_LEVEL"   default:"info"`
	StateDB    string `envconfig:"STATE_DB"    default:"trailhead-state.db"`
	Debug      bool   `envconfig:"DEBUG"       default:"false"`
}

// Load populates Config from environment variables.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("TRAILHEAD", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Init initializes logging from the loaded configuration.
func (c *Config) Init() {
	InitLogger()
	SetLogLevel(c.Level())

	log.Info().
		Str("service_url", c.ServiceURL).
		Str("state_db", c.StateDB).
		Str("log_level", c.Level().String()).
		Msg("Application configuration loaded")
}

// Level parses the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	switch c.LogLevel {
	case "debug", "DEBUG":
		return zerolog.DebugLevel
	case "info", "INFO":
		return zerolog.InfoLevel
	case "warn", "WARN":
		return zerolog.WarnLevel
	case "error", "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
