// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/validation"
)

// RecentCount is how many materials the dashboard overview lists.
const RecentCount = 5

// Dashboard is the admin page data.
type Dashboard struct {
	Materials []model.Material
	Users     []model.User
	Stats     model.Stats
}

// Recent returns the first n materials.
func (d *Dashboard) Recent(n int) []model.Material {
	if len(d.Materials) <= n {
		return d.Materials
	}
	return d.Materials[:n]
}

// LoadDashboard fetches materials, users and stats concurrently. Any failure
// fails the whole load.
func LoadDashboard(ctx context.Context, client AdminAPI) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := client.AdminMaterials(gctx)
		if err != nil {
			return fmt.Errorf("fetching materials: %w", err)
		}
		d.Materials = list
		return nil
	})
	g.Go(func() error {
		list, err := client.AdminUsers(gctx)
		if err != nil {
			return fmt.Errorf("fetching users: %w", err)
		}
		d.Users = list
		return nil
	})
	g.Go(func() error {
		stats, err := client.AdminStats(gctx)
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		d.Stats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.Warn("failed to fetch admin data", "category", model.EventCategoryAPI, "error", err)
		return nil, err
	}
	return &d, nil
}

// AdminDeleteMaterial removes any material once confirmed. The caller
// reloads the dashboard to show the change.
func AdminDeleteMaterial(ctx context.Context, client AdminAPI, admin *model.User, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := client.AdminDeleteMaterial(ctx, id); err != nil {
		return fmt.Errorf("deleting material %s: %w", id, err)
	}
	slog.Info("material deleted by admin", "category", model.EventCategoryModeration,
		"material_id", id, "admin_id", userID(admin))
	return nil
}

// AdminDeleteUser removes a user once confirmed. The backend deletes the
// user's materials too, so the caller reloads both lists.
func AdminDeleteUser(ctx context.Context, client AdminAPI, admin *model.User, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := client.AdminDeleteUser(ctx, id); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	slog.Info("user deleted by admin", "category", model.EventCategoryModeration,
		"user_id", id, "admin_id", userID(admin))
	return nil
}

// UserForm is the admin edit-user form.
type UserForm struct {
	Name  string `form:"name" validate:"notblank"`
	Email string `form:"email" validate:"required,email"`
	Role  string `form:"role" validate:"oneof=user admin"`
}

// FormFor preloads the edit form from u.
func FormFor(u model.User) UserForm {
	return UserForm{Name: u.Name, Email: u.Email, Role: u.Role}
}

// EditUser validates form and saves it. The returned user is merged over
// the existing row.
func EditUser(ctx context.Context, client AdminAPI, admin *model.User, existing model.User, form UserForm) (model.User, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if errs := validation.Struct(form); errs != nil {
		return existing, errs
	}
	updated, err := client.AdminUpdateUser(ctx, existing.ID, model.UserUpdate{Name: form.Name, Email: form.Email, Role: form.Role})
	if err != nil {
		return existing, fmt.Errorf("updating user %s: %w", existing.ID, err)
	}
	slog.Info("user updated by admin", "category", model.EventCategoryModeration,
		"user_id", existing.ID, "role", form.Role, "admin_id", userID(admin))
	return mergeUser(existing, updated), nil
}

func mergeUser(existing model.User, updated *model.User) model.User {
	if updated == nil {
		return existing
	}
	merged := existing
	if updated.Name != "" {
		merged.Name = updated.Name
	}
	if updated.Email != "" {
		merged.Email = updated.Email
	}
	if updated.Role != "" {
		merged.Role = updated.Role
	}
	if updated.Bio != "" {
		merged.Bio = updated.Bio
	}
	if updated.Avatar != "" {
		merged.Avatar = updated.Avatar
	}
	return merged
}

// ResetPasswordForm is the admin reset-password form.
type ResetPasswordForm struct {
	NewPassword string `form:"new_password" validate:"notblank"`
}

// ResetPassword sets a new password for user id.
func ResetPassword(ctx context.Context, client AdminAPI, admin *model.User, id string, form ResetPasswordForm) error {
	if errs := validation.Struct(form); errs != nil {
		return errs
	}
	if err := client.AdminResetPassword(ctx, id, form.NewPassword); err != nil {
		return fmt.Errorf("resetting password for %s: %w", id, err)
	}
	slog.Info("password reset by admin", "category", model.EventCategoryModeration,
		"user_id", id, "admin_id", userID(admin))
	return nil
}

// UserMaterials lists the materials authored by user id.
func UserMaterials(ctx context.Context, client AdminAPI, id string) ([]model.Material, error) {
	list, err := client.AdminUserMaterials(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching materials of %s: %w", id, err)
	}
	return list, nil
}

// FindUser returns the user with id from the dashboard list.
func (d *Dashboard) FindUser(id string) (model.User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}
