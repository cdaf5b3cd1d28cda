package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every server setting. Values come from environment
// variables with defaults suitable for local development; a .env file
// in the working directory is loaded first if present.
type Config struct {
	Host      string `env:"HOST" envDefault:"localhost"`
	Port      int    `env:"PORT" envDefault:"8080"`
	Debug     bool   `env:"DEBUG" envDefault:"false"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`

	// Rooms idle longer than RoomIdleTimeout are reclaimed by a sweep
	// that runs every RoomReclaimInterval.
	RoomIdleTimeout     time.Duration `env:"ROOM_IDLE_TIMEOUT" envDefault:"2h"`
	RoomReclaimInterval time.Duration `env:"ROOM_RECLAIM_INTERVAL" envDefault:"10m"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED" envDefault:"false"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// Load reads the .env file if one exists, then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else {
		log.Debug().Msg("loaded environment from .env file")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
