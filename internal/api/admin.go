// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/himlearn/internal/model"
)

func adminUserPath(id string) string {
	return "/api/admin/users/" + url.PathEscape(id)
}

// AdminMaterials lists every material for moderation.
func (c *Client) AdminMaterials(ctx context.Context) ([]model.Material, error) {
	var out []model.Material
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/blogs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminUsers lists every account.
func (c *Client) AdminUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminStats returns site-wide totals.
func (c *Client) AdminStats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.doJSON(ctx, http.MethodGet, "/api/admin/stats", nil, &out)
	return out, err
}

// AdminDeleteMaterial removes any material.
func (c *Client) AdminDeleteMaterial(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/admin/blogs/"+url.PathEscape(id), nil, nil)
}

// AdminDeleteUser removes an account. The backend may cascade to the user's materials.
func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, adminUserPath(id), nil, nil)
}

// AdminUpdateUser edits name, email and role and returns the stored user.
func (c *Client) AdminUpdateUser(ctx context.Context, id string, in model.UserUpdate) (*model.User, error) {
	return c.updateCall(ctx, http.MethodPut, adminUserPath(id), in)
}

// AdminResetPassword sets a new password for an account.
func (c *Client) AdminResetPassword(ctx context.Context, id, newPassword string) error {
	in := map[string]string{"newPassword": newPassword}
	return c.doJSON(ctx, http.MethodPut, adminUserPath(id)+"/password", in, nil)
}

// AdminUserMaterials lists the materials authored by one account.
func (c *Client) AdminUserMaterials(ctx context.Context, id string) ([]model.Material, error) {
	var out []model.Material
	if err := c.doJSON(ctx, http.MethodGet, adminUserPath(id)+"/blogs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
