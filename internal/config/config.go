// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting of the game service.
type Config struct {
	ServiceName string `env:"GAME_SERVICE_NAME" envDefault:"geeksounds"`
	ServicePort int    `env:"GAME_SERVICE_PORT" envDefault:"8080"`

	// Roster in turn order.
	Players []string `env:"GAME_PLAYERS" envSeparator:","`

	SoundsPath      string `env:"GAME_SOUNDS_PATH" envDefault:"assets/sounds"`
	BonusSoundsPath string `env:"GAME_SOUNDS_BONUS_PATH" envDefault:"assets/sounds/bonus"`
	ImagesPath      string `env:"GAME_IMAGES_PATH" envDefault:"assets/images"`
	WinJinglesPath  string `env:"GAME_LIBRARY_WIN_PATH" envDefault:"assets/library/win"`
	LoseJinglesPath string `env:"GAME_LIBRARY_LOSE_PATH" envDefault:"assets/library/lose"`
	// Optional directory with the front-end, served at "/".
	StaticPath string `env:"GAME_STATIC_PATH"`

	CompanyName     string `env:"GAME_COMPANY_NAME" envDefault:"Geek Sounds"`
	CompanySubtitle string `env:"GAME_COMPANY_SUBTITLE" envDefault:"Guess the sound!"`

	CatalogTTL  time.Duration `env:"GAME_CATALOG_TTL" envDefault:"30s"`
	WatchAssets bool          `env:"GAME_WATCH_ASSETS" envDefault:"true"`
	// 0 picks a random seed at startup.
	RandomSeed uint64 `env:"GAME_RANDOM_SEED" envDefault:"0"`

	ConsulAddr    string `env:"CONSUL_HTTP_ADDR"`
	AdvertiseHost string `env:"SERVICE_ADVERTISED_HOSTNAME"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"geeksounds"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServicePort < 1 || c.ServicePort > 65535 {
		return fmt.Errorf("invalid GAME_SERVICE_PORT %d: must be between 1 and 65535", c.ServicePort)
	}
	if c.CatalogTTL <= 0 {
		return fmt.Errorf("invalid GAME_CATALOG_TTL %s: must be positive", c.CatalogTTL)
	}
	return nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.ServicePort)
}
