package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL string
		Timeout time.Duration
	}
	Cache struct {
		Driver string
		Path   string
		DSN    string
	}
	SessionLifetime time.Duration
	LogLevel        slog.Level
}

// Load reads config from environment (LINKFOLIO_ prefix), an optional .env
// file, and an optional linkfolio.yaml.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("LINKFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("linkfolio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("api.base_url", "http://localhost:8188/api")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.path", ".linkfolio-session.json")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("log.level", "info")

	cfg := &Config{}
	cfg.API.BaseURL = strings.TrimRight(v.GetString("api.base_url"), "/")
	cfg.Cache.Driver = v.GetString("cache.driver")
	cfg.Cache.Path = v.GetString("cache.path")
	cfg.Cache.DSN = v.GetString("cache.dsn")

	timeout, err := time.ParseDuration(v.GetString("api.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid LINKFOLIO_API_TIMEOUT: %w", err)
	}
	cfg.API.Timeout = timeout

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid LINKFOLIO_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid LINKFOLIO_LOG_LEVEL: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("LINKFOLIO_API_BASE_URL is required")
	}
	if _, err := cfg.Origin(); err != nil {
		return nil, err
	}
	switch cfg.Cache.Driver {
	case "memory":
	case "file":
		if cfg.Cache.Path == "" {
			return nil, fmt.Errorf("LINKFOLIO_CACHE_PATH is required for the file cache")
		}
	case "sqlite3", "mysql", "postgres":
		if cfg.Cache.DSN == "" {
			return nil, fmt.Errorf("LINKFOLIO_CACHE_DSN is required for the %s cache", cfg.Cache.Driver)
		}
	default:
		return nil, fmt.Errorf("unsupported cache driver %q: must be memory, file, sqlite3, mysql, or postgres", cfg.Cache.Driver)
	}

	return cfg, nil
}

// Origin returns scheme://host of the API base URL. Persisted session keys
// are scoped to it.
func (c *Config) Origin() (string, error) {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid LINKFOLIO_API_BASE_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid LINKFOLIO_API_BASE_URL %q: scheme and host are required", c.API.BaseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
