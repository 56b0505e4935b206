// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/himlearn/internal/model"
)

// userEnvelope is the {"user": ...} wrapper used by auth endpoints.
type userEnvelope struct {
	User *model.User `json:"user"`
}

func (c *Client) userCall(ctx context.Context, method, path string, in any) (*model.User, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &Error{StatusCode: http.StatusBadGateway}
	}
	return out.User, nil
}

// updateCall is userCall for updates. A 2xx reply without the envelope
// returns a nil user, meaning the caller keeps its copy.
func (c *Client) updateCall(ctx context.Context, method, path string, in any) (*model.User, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Me returns the user the jar's credentials belong to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	return c.userCall(ctx, http.MethodGet, "/api/auth/me", nil)
}

// Login authenticates a regular user.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	return c.userCall(ctx, http.MethodPost, "/api/auth/login", creds)
}

// AdminLogin authenticates through the admin-only endpoint.
func (c *Client) AdminLogin(ctx context.Context, creds model.Credentials) (*model.User, error) {
	return c.userCall(ctx, http.MethodPost, "/api/auth/admin-login", creds)
}

// Signup registers and signs in a new user.
func (c *Client) Signup(ctx context.Context, reg model.Registration) (*model.User, error) {
	return c.userCall(ctx, http.MethodPost, "/api/auth/signup", reg)
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// UpdateMe updates the current user's profile and returns the stored user,
// or nil when the backend does not echo it.
func (c *Client) UpdateMe(ctx context.Context, in model.ProfileUpdate) (*model.User, error) {
	return c.updateCall(ctx, http.MethodPut, "/api/auth/me", in)
}

// ChangePassword changes the current user's password.
func (c *Client) ChangePassword(ctx context.Context, in model.PasswordChange) error {
	return c.doJSON(ctx, http.MethodPut, "/api/auth/me/password", in, nil)
}
