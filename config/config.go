package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	defaultPort                = "8080"
	defaultDatabaseURL         = "user=postgres password=password dbname=technews host=localhost port=5432 sslmode=disable"
	defaultArticlesPerFeed     = 5
	defaultFetchTimeoutSeconds = 20
)

// Config holds runtime configuration. Values come from an optional TOML file
// with environment variables taking precedence, so deployments can ship a
// checked-in baseline and override per environment.
type Config struct {
	Port                string `toml:"port"`
	DatabaseURL         string `toml:"database_url"`
	ImportSecret        string `toml:"import_secret"`
	ArticlesPerFeed     int    `toml:"articles_per_feed"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
}

// Load reads the config file at path (skipped when path is empty or the file
// does not exist), applies environment overrides, then defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_CONNECTION_STRING"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("IMPORT_SECRET"); v != "" {
		cfg.ImportSecret = v
	}
	if v := os.Getenv("ARTICLES_PER_FEED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ArticlesPerFeed = n
		}
	}
	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FetchTimeoutSeconds = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.ArticlesPerFeed <= 0 {
		cfg.ArticlesPerFeed = defaultArticlesPerFeed
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = defaultFetchTimeoutSeconds
	}
}
