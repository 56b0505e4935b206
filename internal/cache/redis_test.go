// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips unless HIMLEARN_TEST_REDIS_URL points at a server.
func skipIfNoRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("HIMLEARN_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: HIMLEARN_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCacheFromURL(url, "himlearn-test:", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCacheFromURL: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	_ = c.Clear(context.Background())
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	c := skipIfNoRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "media:a", []byte("bytes"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "media:a")
	if err != nil || string(got) != "bytes" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if has, _ := c.Has(ctx, "media:a"); !has {
		t.Error("Has = false")
	}
	_ = c.Delete(ctx, "media:a")
	if _, err := c.Get(ctx, "media:a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete = %v", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c := skipIfNoRedis(t)
	ctx := context.Background()

	_ = c.Set(ctx, "pending:1", []byte("1"), 0)
	_ = c.Set(ctx, "pending:2", []byte("2"), 0)
	_ = c.Set(ctx, "media:1", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "pending:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if st := c.Stats(); st.Items != 1 {
		t.Errorf("Items = %d, want 1", st.Items)
	}
}

func TestRedisCache_Close(t *testing.T) {
	c := skipIfNoRedis(t)
	_ = c.Close()
	if err := c.Ping(context.Background()); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping after Close = %v", err)
	}
}
