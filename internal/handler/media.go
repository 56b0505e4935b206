// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/cache"
	"github.com/olegiv/himlearn/internal/imaging"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/util"
)

// Placeholder image size.
const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 400
)

const (
	placeholderKey = "media:placeholder"
	mediaMaxAge    = 3600
)

// ImageFetcher downloads images from the API origin.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) (*api.Image, error)
}

// MediaHandler proxies server-relative images and serves the placeholder.
type MediaHandler struct {
	fetcher     ImageFetcher
	images      *cache.TypedCache[api.Image]
	placeholder []byte
}

// NewMediaHandler creates a media handler caching proxied images in c for ttl.
// The placeholder is generated once and kept in the same cache.
func NewMediaHandler(ctx context.Context, fetcher ImageFetcher, c cache.Cache, ttl time.Duration) (*MediaHandler, error) {
	placeholder, err := c.Get(ctx, placeholderKey)
	if err != nil {
		placeholder, err = imaging.Placeholder(PlaceholderWidth, PlaceholderHeight)
		if err != nil {
			return nil, fmt.Errorf("generating placeholder: %w", err)
		}
		if err := c.Set(ctx, placeholderKey, placeholder, 0); err != nil {
			slog.Warn("failed to cache placeholder", "category", model.EventCategoryCache, "error", err)
		}
	}
	return &MediaHandler{
		fetcher:     fetcher,
		images:      cache.NewTypedCache[api.Image](c, "media:", ttl),
		placeholder: placeholder,
	}, nil
}

// Placeholder handles GET /media/placeholder.png.
func (h *MediaHandler) Placeholder(w http.ResponseWriter, _ *http.Request) {
	h.writeImage(w, imaging.MimeTypePNG, h.placeholder)
}

// Serve handles GET /media/*. Any upstream failure serves the placeholder.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ref, ok := util.MediaRef(chi.URLParam(r, "*"))
	if !ok {
		h.Placeholder(w, r)
		return
	}

	img, err := h.images.GetOrSet(r.Context(), ref, func() (*api.Image, error) {
		return h.fetcher.FetchImage(r.Context(), ref)
	})
	if err != nil {
		slog.Debug("serving placeholder for image", "ref", ref, "error", err)
		h.Placeholder(w, r)
		return
	}
	h.writeImage(w, img.ContentType, img.Data)
}

func (h *MediaHandler) writeImage(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set(HeaderContentType, contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if w.Header().Get("Cache-Control") == "" {
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(mediaMaxAge))
	}
	_, _ = w.Write(data)
}
