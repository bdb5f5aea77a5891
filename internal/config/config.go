// Package config reads listapp settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all runtime configuration.
type Config struct {
	APIURL         string
	TimeoutMs      int
	MaxRetries     int
	Home           string
	CacheDB        string
	LogCalls       bool
	LogFile        string
	ImageHosts     []string
	ImageAllowHTTP bool
}

// DefaultConfig returns a Config with sensible defaults. Home falls back to
// ./.listapp when the user home directory cannot be resolved.
func DefaultConfig() Config {
	home := ".listapp"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".listapp")
	}
	return Config{
		APIURL:     "http://localhost:8080",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Home:       home,
	}
}

// Load reads configuration from LISTAPP_* environment variables, falling
// back to defaults for any unset or invalid values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LISTAPP_API_URL"); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("LISTAPP_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("LISTAPP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("LISTAPP_HOME"); v != "" {
		cfg.Home = v
	}
	if v := os.Getenv("LISTAPP_CACHE_DB"); v != "" {
		cfg.CacheDB = v
	}
	if v := os.Getenv("LISTAPP_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LISTAPP_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("LISTAPP_IMAGE_HOSTS"); v != "" {
		cfg.ImageHosts = splitList(v)
	}
	if v := os.Getenv("LISTAPP_IMAGE_ALLOW_HTTP"); v != "" {
		cfg.ImageAllowHTTP, _ = strconv.ParseBool(v)
	}

	if cfg.CacheDB == "" {
		cfg.CacheDB = filepath.Join(cfg.Home, "cache.db")
	}
	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
