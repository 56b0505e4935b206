// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache stores JSON-encoded values of T under a key namespace.
type TypedCache[T any] struct {
	cache      Cache
	namespace  string
	defaultTTL time.Duration
}

// NewTypedCache wraps cache. Keys are prefixed with namespace.
func NewTypedCache[T any](cache Cache, namespace string, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: cache, namespace: namespace, defaultTTL: defaultTTL}
}

// Get returns the value and true when present and decodable.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, c.namespace+key)
	if err != nil {
		return nil, false
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return &value, true
}

// Set stores value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.namespace+key, data, c.defaultTTL)
}

// Take returns the value and removes it.
func (c *TypedCache[T]) Take(ctx context.Context, key string) (*T, bool) {
	v, ok := c.Get(ctx, key)
	if ok {
		_ = c.cache.Delete(ctx, c.namespace+key)
	}
	return v, ok
}

// Delete removes key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, c.namespace+key)
}

// GetOrSet returns the cached value or computes, stores and returns it.
// Store errors are ignored; the computed value is still returned.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (*T, error)) (*T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, v)
	return v, nil
}
