// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and tunes the cache backend.
type Config struct {
	RedisURL         string // empty selects the memory backend
	Prefix           string
	DefaultTTL       time.Duration
	MaxItems         int
	CleanupInterval  time.Duration
	FallbackToMemory bool
}

// Result reports which backend NewCache produced.
type Result struct {
	Cache      Cache
	Backend    string
	IsFallback bool
}

// NewCache builds the configured backend. When Redis is unreachable and
// FallbackToMemory is set, a memory cache is returned instead.
func NewCache(cfg Config) (Result, error) {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}
	memory := func() Cache {
		return NewMemoryCache(MemoryOptions{
			DefaultTTL:      cfg.DefaultTTL,
			MaxItems:        cfg.MaxItems,
			CleanupInterval: cfg.CleanupInterval,
		})
	}

	if cfg.RedisURL == "" {
		return Result{Cache: memory(), Backend: BackendMemory}, nil
	}

	rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	if err != nil {
		if !cfg.FallbackToMemory {
			return Result{}, err
		}
		slog.Warn("redis unavailable, using memory cache",
			"url", SanitizeRedisURL(cfg.RedisURL), "error", err)
		return Result{Cache: memory(), Backend: BackendMemory, IsFallback: true}, nil
	}
	return Result{Cache: rc, Backend: BackendRedis}, nil
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
