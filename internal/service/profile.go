// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/himlearn/internal/avatar"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/session"
	"github.com/olegiv/himlearn/internal/validation"
)

// ProfileStore saves the profile and keeps the session user in step.
type ProfileStore interface {
	UpdateProfile(ctx context.Context, in model.ProfileUpdate) session.Result
}

// AvatarChecker verifies an avatar URL before it is saved.
type AvatarChecker interface {
	Check(ctx context.Context, rawURL string) error
}

// ProfileForm is the profile form.
type ProfileForm struct {
	Name   string `form:"name" validate:"notblank"`
	Email  string `form:"email" validate:"required,email"`
	Bio    string `form:"bio"`
	Avatar string `form:"avatar"`
}

// LoadProfile fetches the signed-in user and fills the form from it.
func LoadProfile(ctx context.Context, client ProfileAPI) (ProfileForm, error) {
	u, err := client.Me(ctx)
	if err != nil {
		return ProfileForm{}, fmt.Errorf("loading profile: %w", err)
	}
	return ProfileForm{Name: u.Name, Email: u.Email, Bio: u.Bio, Avatar: u.Avatar}, nil
}

// UpdateProfile validates form, checks the avatar URL when one is set and
// saves the profile through the session store.
func UpdateProfile(ctx context.Context, store ProfileStore, checker AvatarChecker, form ProfileForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Avatar = strings.TrimSpace(form.Avatar)
	if errs := validation.Struct(form); errs != nil {
		return errs
	}
	if form.Avatar != "" {
		if err := checker.Check(ctx, form.Avatar); err != nil {
			return UserError(avatar.Message(err))
		}
	}
	res := store.UpdateProfile(ctx, model.ProfileUpdate{
		Name:   form.Name,
		Email:  form.Email,
		Bio:    form.Bio,
		Avatar: form.Avatar,
	})
	if !res.Success {
		return UserError(res.Message)
	}
	return nil
}

// PasswordForm is the change-password form.
type PasswordForm struct {
	CurrentPassword string `form:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required"`
	ConfirmPassword string `form:"confirm_password"`
}

// ChangePassword checks that the new password was typed twice the same and
// then asks the API to change it.
func ChangePassword(ctx context.Context, client ProfileAPI, form PasswordForm) error {
	if form.NewPassword != form.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if errs := validation.Struct(form); errs != nil {
		return errs
	}
	err := client.ChangePassword(ctx, model.PasswordChange{
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
	if err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}
