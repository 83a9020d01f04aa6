// Package config loads client configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"lastcard/engine"
)

// Config holds everything the client needs to join a table.
type Config struct {
	// ArbiterURL is the websocket endpoint of the table's arbiter.
	ArbiterURL string
	// AuthToken is the session JWT handed out by the matchmaker.
	AuthToken string
	// Variant selects the rule table: "classic" or "extended".
	Variant string
	// PlayerName is the display name sent on join.
	PlayerName string
	// LogLevel is a logrus level name.
	LogLevel string
}

// Defaults returns the development defaults.
func Defaults() *Config {
	return &Config{
		ArbiterURL: "ws://localhost:8080/ws",
		Variant:    "classic",
		PlayerName: "anonymous",
		LogLevel:   "info",
	}
}

// Load reads an optional .env file, then applies environment overrides on
// top of the defaults. A missing .env is not an error.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Defaults()
	overrideString(&cfg.ArbiterURL, "LASTCARD_ARBITER_URL")
	overrideString(&cfg.AuthToken, "LASTCARD_AUTH_TOKEN")
	overrideString(&cfg.Variant, "LASTCARD_VARIANT")
	overrideString(&cfg.PlayerName, "LASTCARD_PLAYER_NAME")
	overrideString(&cfg.LogLevel, "LASTCARD_LOG_LEVEL")
	return cfg
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Rules resolves the configured variant to a rule table.
func (c *Config) Rules() (engine.Rules, error) {
	r, ok := engine.RulesByName(c.Variant)
	if !ok {
		return engine.Rules{}, fmt.Errorf("unknown rule variant %q", c.Variant)
	}
	return r, nil
}

// Level resolves the configured log level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
