package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		TTL      string `yaml:"ttl" env:"TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"POSTGRES_"`
	Catalog struct {
		Default string   `yaml:"default" env:"DEFAULT"`
		TTL     string   `yaml:"ttl" env:"TTL"`
		Files   []string `yaml:"files" env:"FILES"`
	} `yaml:"catalog" envPrefix:"CATALOG_"`
	Game struct {
		TickInterval   string `yaml:"tick_interval" env:"TICK_INTERVAL"`
		CorrectSettle  string `yaml:"correct_settle" env:"CORRECT_SETTLE"`
		IncorrectClear string `yaml:"incorrect_clear" env:"INCORRECT_CLEAR"`
	} `yaml:"game" envPrefix:"GAME_"`
}

// EnvPrefix namespaces every environment override, e.g. FINDTHESTATE_REDIS_ADDR.
const EnvPrefix = "FINDTHESTATE_"

// Load reads YAML config from path and applies environment overrides.
// A missing file is tolerated when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
