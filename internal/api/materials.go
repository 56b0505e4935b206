// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/olegiv/himlearn/internal/model"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func materialPath(id string) string {
	return "/api/blogs/" + url.PathEscape(id)
}

// ListMaterials returns every material.
func (c *Client) ListMaterials(ctx context.Context) ([]model.Material, error) {
	var out []model.Material
	if err := c.doJSON(ctx, http.MethodGet, "/api/blogs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMaterial returns one material with its comments.
func (c *Client) GetMaterial(ctx context.Context, id string) (*model.Material, error) {
	var out model.Material
	if err := c.doJSON(ctx, http.MethodGet, materialPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMaterial publishes a new material. The request is always multipart.
func (c *Client) CreateMaterial(ctx context.Context, in model.MaterialInput) (*model.Material, error) {
	body, contentType, err := encodeMaterialForm(in)
	if err != nil {
		return nil, err
	}
	var out model.Material
	if err := c.do(ctx, http.MethodPost, "/api/blogs", body, contentType, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMaterial edits a material. A new image switches the request to
// multipart, otherwise title and description go as JSON.
func (c *Client) UpdateMaterial(ctx context.Context, id string, in model.MaterialInput) (*model.Material, error) {
	var out model.Material
	if in.Image == nil {
		payload := map[string]string{"title": in.Title, "description": in.Description}
		if err := c.doJSON(ctx, http.MethodPut, materialPath(id), payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	body, contentType, err := encodeMaterialForm(in)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodPut, materialPath(id), body, contentType, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMaterial removes a material the caller owns (or any, for admins).
func (c *Client) DeleteMaterial(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, materialPath(id), nil, nil)
}

// ToggleLike flips the caller's like and returns the server's like state.
func (c *Client) ToggleLike(ctx context.Context, id string) (model.LikeState, error) {
	var out model.LikeState
	err := c.doJSON(ctx, http.MethodPost, materialPath(id)+"/like", struct{}{}, &out)
	return out, err
}

// AddComment posts a comment and returns the full updated comment list.
func (c *Client) AddComment(ctx context.Context, id, content string) ([]model.Comment, error) {
	var out []model.Comment
	in := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPost, materialPath(id)+"/comment", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment removes one comment from a material.
func (c *Client) DeleteComment(ctx context.Context, id, commentID string) error {
	return c.doJSON(ctx, http.MethodDelete, materialPath(id)+"/comment/"+url.PathEscape(commentID), nil, nil)
}

// encodeMaterialForm builds the multipart body with title, description and an optional image part.
func encodeMaterialForm(in model.MaterialInput) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", in.Title); err != nil {
		return nil, "", fmt.Errorf("writing title: %w", err)
	}
	if err := mw.WriteField("description", in.Description); err != nil {
		return nil, "", fmt.Errorf("writing description: %w", err)
	}

	if in.Image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(in.Image.Filename)))
		ct := in.Image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part: %w", err)
		}
		if _, err := part.Write(in.Image.Data); err != nil {
			return nil, "", fmt.Errorf("writing image: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
