package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8188/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Cache.Driver != "file" {
		t.Errorf("cache driver = %q, want file", cfg.Cache.Driver)
	}
	if cfg.SessionLifetime != 720*time.Hour {
		t.Errorf("session lifetime = %v, want 720h", cfg.SessionLifetime)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v, want info", cfg.LogLevel)
	}
}

func TestFromViper_TrimsTrailingSlash(t *testing.T) {
	v := viper.New()
	v.Set("api.base_url", "https://links.example.com/api/")
	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.API.BaseURL != "https://links.example.com/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	origin, err := cfg.Origin()
	if err != nil {
		t.Fatalf("Origin: %v", err)
	}
	if origin != "https://links.example.com" {
		t.Errorf("origin = %q, want %q", origin, "https://links.example.com")
	}
}

func TestFromViper_SQLCacheRequiresDSN(t *testing.T) {
	v := viper.New()
	v.Set("cache.driver", "postgres")
	if _, err := fromViper(v); err == nil {
		t.Fatal("expected error for postgres cache without DSN")
	}
}

func TestFromViper_UnknownCacheDriver(t *testing.T) {
	v := viper.New()
	v.Set("cache.driver", "redis")
	if _, err := fromViper(v); err == nil {
		t.Fatal("expected error for unsupported cache driver")
	}
}

func TestFromViper_InvalidBaseURL(t *testing.T) {
	v := viper.New()
	v.Set("api.base_url", "localhost")
	if _, err := fromViper(v); err == nil {
		t.Fatal("expected error for base url without scheme")
	}
}

func TestFromViper_InvalidLogLevel(t *testing.T) {
	v := viper.New()
	v.Set("log.level", "loud")
	if _, err := fromViper(v); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}
