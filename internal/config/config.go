package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StageDev  = "dev"
	StageProd = "prod"
)

type Config struct {
	Stage                  string        `env:"STAGE,required"`
	Port                   int           `env:"PORT" envDefault:"8000"`
	DbDriver               string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseUrl            string        `env:"DATABASE_URL" envDefault:"battleship.db"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"20m"`
}

// MustLoad reads .env outside of prod and parses the environment.
func MustLoad() Config {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
			panic(err)
		}
	}

	cfg, err := Parse(env.Options{})
	if err != nil {
		panic(err)
	}
	return cfg
}

func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, fmt.Errorf("stage must be either dev or prod, got: %q", cfg.Stage)
	}
	if cfg.DbDriver != "postgres" && cfg.DbDriver != "sqlite" {
		return Config{}, fmt.Errorf("db driver must be either postgres or sqlite, got: %q", cfg.DbDriver)
	}
	return cfg, nil
}
