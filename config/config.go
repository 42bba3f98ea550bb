package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the client configuration. Every field can be overridden
// through PARLEY_* environment variables; a .env file in the working
// directory is honored when present.
type Config struct {
	ServerURL         string        `envconfig:"SERVER_URL" default:"http://localhost:3001"`
	TokenPath         string        `envconfig:"TOKEN_PATH"`
	LogPath           string        `envconfig:"LOG_PATH"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	ReconnectAttempts int           `envconfig:"RECONNECT_ATTEMPTS" default:"10"`
	ReconnectDelay    time.Duration `envconfig:"RECONNECT_DELAY" default:"500ms"`
}

// Load reads the configuration from the environment. TokenPath and
// LogPath default to files under the user config directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("parley", &cfg); err != nil {
		return nil, err
	}

	if cfg.TokenPath == "" || cfg.LogPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		dir = filepath.Join(dir, "parley")
		if cfg.TokenPath == "" {
			cfg.TokenPath = filepath.Join(dir, "token")
		}
		if cfg.LogPath == "" {
			cfg.LogPath = filepath.Join(dir, "parley.log")
		}
	}
	return &cfg, nil
}
