// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/himlearn/internal/cache"
	"github.com/olegiv/himlearn/internal/imaging"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/validation"
)

// Preview thumbnail bounds.
const (
	PreviewWidth  = 480
	PreviewHeight = 270
)

// DefaultPendingTTL is how long a staged upload waits for the form to be submitted.
const DefaultPendingTTL = 30 * time.Minute

// MaterialForm is the create and edit form.
type MaterialForm struct {
	Title        string `form:"title" validate:"notblank"`
	Description  string `form:"description" validate:"notblank"`
	PendingToken string `form:"pending_image"`
}

// Trimmed returns the form with surrounding whitespace removed from the text fields.
func (f MaterialForm) Trimmed() MaterialForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// Editor stages image uploads between form submissions and sends materials
// to the API.
type Editor struct {
	pending *cache.TypedCache[model.Upload]
	proc    *imaging.Processor
}

// NewEditor keeps staged uploads in c for ttl.
func NewEditor(c cache.Cache, proc *imaging.Processor, ttl time.Duration) *Editor {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &Editor{
		pending: cache.NewTypedCache[model.Upload](c, "upload:", ttl),
		proc:    proc,
	}
}

func pendingKey(owner, token string) string {
	return owner + ":" + token
}

// StageUpload normalizes an uploaded image and keeps it for owner. It returns
// the token the form carries and a thumbnail data URL.
func (e *Editor) StageUpload(ctx context.Context, owner string, r io.Reader, filename string) (token, preview string, err error) {
	up, err := e.proc.PrepareUpload(r, filename)
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return "", "", UserError(MsgUnsupportedImage)
	case errors.Is(err, imaging.ErrTooLarge):
		return "", "", UserError(MsgImageTooLarge)
	case err != nil:
		return "", "", fmt.Errorf("preparing upload: %w", err)
	}
	token = uuid.NewString()
	if err := e.pending.Set(ctx, pendingKey(owner, token), up); err != nil {
		return "", "", fmt.Errorf("staging upload: %w", err)
	}
	preview, err = imaging.PreviewDataURL(up.Data, PreviewWidth, PreviewHeight)
	if err != nil {
		return "", "", err
	}
	return token, preview, nil
}

// Preview returns the thumbnail of a staged upload, or "" when the token is
// unknown or expired.
func (e *Editor) Preview(ctx context.Context, owner, token string) string {
	if token == "" {
		return ""
	}
	up, ok := e.pending.Get(ctx, pendingKey(owner, token))
	if !ok {
		return ""
	}
	preview, err := imaging.PreviewDataURL(up.Data, PreviewWidth, PreviewHeight)
	if err != nil {
		return ""
	}
	return preview
}

// input validates the form and attaches the staged image, if any.
func (e *Editor) input(ctx context.Context, owner string, form MaterialForm) (model.MaterialInput, error) {
	form = form.Trimmed()
	if errs := validation.Struct(form); errs != nil {
		return model.MaterialInput{}, errs
	}
	in := model.MaterialInput{Title: form.Title, Description: form.Description}
	if form.PendingToken != "" {
		up, ok := e.pending.Get(ctx, pendingKey(owner, form.PendingToken))
		if !ok {
			return model.MaterialInput{}, ErrNoPendingUpload
		}
		in.Image = up
	}
	return in, nil
}

func (e *Editor) release(ctx context.Context, owner, token string) {
	if token != "" {
		_ = e.pending.Delete(ctx, pendingKey(owner, token))
	}
}

// Create validates form and creates a material. The staged image is kept
// until the API accepts it, so a failed submission can be retried.
func (e *Editor) Create(ctx context.Context, client EditorAPI, owner string, form MaterialForm) (*model.Material, error) {
	in, err := e.input(ctx, owner, form)
	if err != nil {
		return nil, err
	}
	m, err := client.CreateMaterial(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("creating material: %w", err)
	}
	e.release(ctx, owner, form.PendingToken)
	slog.Info("material created", "category", model.EventCategoryContent, "material_id", m.ID)
	return m, nil
}

// Update validates form and saves it over material id. Without a staged
// image the current image is kept.
func (e *Editor) Update(ctx context.Context, client EditorAPI, owner, id string, form MaterialForm) (*model.Material, error) {
	in, err := e.input(ctx, owner, form)
	if err != nil {
		return nil, err
	}
	m, err := client.UpdateMaterial(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("updating material %s: %w", id, err)
	}
	e.release(ctx, owner, form.PendingToken)
	slog.Info("material updated", "category", model.EventCategoryContent, "material_id", id)
	return m, nil
}

// LoadForEdit returns the form preloaded from material id and the material
// itself for its current image.
func LoadForEdit(ctx context.Context, client EditorAPI, id string) (MaterialForm, *model.Material, error) {
	m, err := client.GetMaterial(ctx, id)
	if err != nil {
		return MaterialForm{}, nil, fmt.Errorf("loading material %s: %w", id, err)
	}
	return MaterialForm{Title: m.Title, Description: m.Description}, m, nil
}
