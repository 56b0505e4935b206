// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxImageBytes caps proxied image downloads.
const MaxImageBytes = 10 << 20

// IsAbsoluteImage reports whether ref is already a full URL.
func IsAbsoluteImage(ref string) bool {
	return strings.HasPrefix(ref, "http")
}

// ResolveImage turns an image reference into a fetchable URL.
// Absolute refs are returned unchanged, anything else is joined onto the API base.
func (c *Client) ResolveImage(ref string) string {
	if ref == "" || IsAbsoluteImage(ref) {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.endpoint(ref)
}

// Image is a downloaded image body.
type Image struct {
	ContentType string
	Data        []byte
}

// FetchImage downloads a server-relative image through the API origin.
func (c *Client) FetchImage(ctx context.Context, ref string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveImage(ref), nil)
	if err != nil {
		return nil, fmt.Errorf("building image request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{StatusCode: resp.StatusCode}
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("fetching image: unexpected content type %q", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("fetching image: larger than %d bytes", MaxImageBytes)
	}
	return &Image{ContentType: ct, Data: data}, nil
}
