// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package avatar pre-checks a profile avatar URL with a HEAD request before
// the profile is saved.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/himlearn/internal/util"
)

// DefaultMaxBytes is the largest accepted avatar.
const DefaultMaxBytes = 20 * 1024

// Check failures. Their messages are shown to the user as-is.
var (
	ErrNotImage     = errors.New("Avatar URL must point to an image file.")
	ErrTooLarge     = errors.New("Avatar image size must be 20 KB or less.")
	ErrUnverifiable = errors.New("Could not verify avatar image. Please check the URL.")
)

// Checker validates avatar URLs.
type Checker struct {
	client       *http.Client
	maxBytes     int64
	allowPrivate bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithMaxBytes overrides the size cap.
func WithMaxBytes(n int64) Option {
	return func(c *Checker) { c.maxBytes = n }
}

// WithHTTPClient replaces the HEAD client. Private addresses are then allowed,
// which tests against httptest servers rely on.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) {
		c.client = hc
		c.allowPrivate = true
	}
}

// NewChecker returns a checker whose client refuses private addresses.
func NewChecker(opts ...Option) *Checker {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	c := &Checker{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: &http.Transport{DialContext: util.PublicDialContext(dialer, net.DefaultResolver)},
		},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check sends a HEAD request to rawURL. The response must declare an image
// content type and, when it declares a length, fit within the size cap.
func (c *Checker) Check(ctx context.Context, rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if !c.allowPrivate {
		if err := util.CheckRemoteURL(ctx, net.DefaultResolver, rawURL); err != nil {
			return fmt.Errorf("%w (%v)", ErrUnverifiable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrUnverifiable, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrUnverifiable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return ErrNotImage
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err == nil && n > c.maxBytes {
			return ErrTooLarge
		}
	}
	return nil
}

// Message maps a Check error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotImage):
		return ErrNotImage.Error()
	case errors.Is(err, ErrTooLarge):
		return ErrTooLarge.Error()
	default:
		return ErrUnverifiable.Error()
	}
}
