// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads HIMLEARN_ environment settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIURL        string `env:"HIMLEARN_API_URL,required"`
	SessionSecret string `env:"HIMLEARN_SESSION_SECRET,required"`

	DBPath     string `env:"HIMLEARN_DB_PATH" envDefault:"./data/himlearn.db"`
	ServerHost string `env:"HIMLEARN_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"HIMLEARN_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"HIMLEARN_ENV" envDefault:"development"`
	LogLevel   string `env:"HIMLEARN_LOG_LEVEL" envDefault:"info"`

	// Backend calls
	APITimeout int `env:"HIMLEARN_API_TIMEOUT" envDefault:"15"` // seconds

	// Cache
	RedisURL     string `env:"HIMLEARN_REDIS_URL"`
	CachePrefix  string `env:"HIMLEARN_CACHE_PREFIX" envDefault:"himlearn:"`
	CacheTTL     int    `env:"HIMLEARN_CACHE_TTL" envDefault:"3600"` // seconds
	CacheMaxSize int    `env:"HIMLEARN_CACHE_MAX_SIZE" envDefault:"10000"`

	// Limits and housekeeping
	AvatarMaxBytes     int64 `env:"HIMLEARN_AVATAR_MAX_BYTES" envDefault:"20480"`
	UploadMaxMB        int64 `env:"HIMLEARN_UPLOAD_MAX_MB" envDefault:"5"`
	VisitorIdleMinutes int   `env:"HIMLEARN_VISITOR_IDLE_MINUTES" envDefault:"60"`
	EventRetentionDays int   `env:"HIMLEARN_EVENT_RETENTION_DAYS" envDefault:"30"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// APITimeoutDuration is the per-call timeout for backend requests.
func (c Config) APITimeoutDuration() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

// CacheTTLDuration is the default cache entry lifetime.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// VisitorIdle is how long an unused visitor is kept in memory.
func (c Config) VisitorIdle() time.Duration {
	return time.Duration(c.VisitorIdleMinutes) * time.Minute
}

// EventRetention is how long event log rows are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// UploadMaxBytes is the cover image upload limit.
func (c Config) UploadMaxBytes() int64 {
	return c.UploadMaxMB << 20
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("HIMLEARN_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("HIMLEARN_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("HIMLEARN_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("HIMLEARN_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	if c.APITimeout <= 0 {
		return fmt.Errorf("HIMLEARN_API_TIMEOUT must be positive, got %d", c.APITimeout)
	}
	if c.UploadMaxMB <= 0 {
		return fmt.Errorf("HIMLEARN_UPLOAD_MAX_MB must be positive, got %d", c.UploadMaxMB)
	}
	if c.AvatarMaxBytes <= 0 {
		return fmt.Errorf("HIMLEARN_AVATAR_MAX_BYTES must be positive, got %d", c.AvatarMaxBytes)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
