// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the page logic behind the handlers: it loads view
// models from the API, validates forms and turns failures into the messages
// shown to the visitor.
package service

import (
	"context"
	"errors"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/validation"
)

// Messages shown to the visitor.
const (
	MsgFetchMaterialsFailed = "Failed to fetch learning materials"
	MsgMaterialNotFound     = "Learning material not found"
	MsgLikeFailed           = "Failed to like learning material"
	MsgCommentFailed        = "Failed to add comment"
	MsgCommentDeleted       = "Comment deleted!"
	MsgDeleteCommentFailed  = "Failed to delete comment"
	MsgMaterialDeleted      = "Learning material deleted!"
	MsgDeleteMaterialFailed = "Failed to delete learning material"

	MsgRequiredFields       = "Please fill in all required fields"
	MsgMaterialCreated      = "Learning material created!"
	MsgCreateMaterialFailed = "Failed to create learning material"
	MsgLoadForEditFailed    = "Failed to load blog data"
	MsgMaterialUpdated      = "Learning material updated!"
	MsgUpdateMaterialFailed = "Failed to update learning material"
	MsgUploadExpired        = "The selected image has expired, please choose it again"
	MsgUnsupportedImage     = "Image must be a JPEG, PNG, GIF or WebP file"
	MsgImageTooLarge        = "Image file is too large"

	MsgFetchAdminFailed         = "Failed to fetch admin data"
	MsgUserDeleted              = "User deleted!"
	MsgDeleteUserFailed         = "Failed to delete user"
	MsgUserUpdated              = "User updated!"
	MsgUpdateUserFailed         = "Failed to update user"
	MsgPasswordReset            = "Password reset!"
	MsgResetPasswordFailed      = "Failed to reset password"
	MsgFetchUserMaterialsFailed = "Failed to fetch user's learning materials"

	MsgLoadProfileFailed    = "Failed to load profile"
	MsgProfileUpdated       = "Profile updated successfully"
	MsgUpdateProfileFailed  = "Failed to update profile"
	MsgPasswordMismatch     = "New passwords do not match"
	MsgPasswordUpdated      = "Password updated successfully"
	MsgUpdatePasswordFailed = "Failed to update password"
)

// Errors returned before any request is sent.
var (
	ErrEmptyComment     = errors.New("comment is empty")
	ErrNotConfirmed     = errors.New("action not confirmed")
	ErrPasswordMismatch = UserError(MsgPasswordMismatch)
	ErrNoPendingUpload  = UserError(MsgUploadExpired)
)

// UserError is an error whose text is meant for the visitor as is.
type UserError string

func (e UserError) Error() string { return string(e) }

// Message picks the text to show for err. Empty required fields give the
// required-fields message and any other validation failure shows its own
// text. A UserError shows its own text, and API errors show the server's
// message when it sent one.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		if verrs.OnlyMissing() {
			return MsgRequiredFields
		}
		return verrs.First()
	}
	var uerr UserError
	if errors.As(err, &uerr) {
		return string(uerr)
	}
	return api.MessageOr(err, fallback)
}

// MaterialLister lists every material.
type MaterialLister interface {
	ListMaterials(ctx context.Context) ([]model.Material, error)
}

// DetailAPI is what the detail page calls.
type DetailAPI interface {
	GetMaterial(ctx context.Context, id string) (*model.Material, error)
	ToggleLike(ctx context.Context, id string) (model.LikeState, error)
	AddComment(ctx context.Context, id, content string) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id, commentID string) error
	DeleteMaterial(ctx context.Context, id string) error
}

// EditorAPI is what the create and edit pages call.
type EditorAPI interface {
	GetMaterial(ctx context.Context, id string) (*model.Material, error)
	CreateMaterial(ctx context.Context, in model.MaterialInput) (*model.Material, error)
	UpdateMaterial(ctx context.Context, id string, in model.MaterialInput) (*model.Material, error)
}

// AdminAPI is what the admin dashboard calls.
type AdminAPI interface {
	AdminMaterials(ctx context.Context) ([]model.Material, error)
	AdminUsers(ctx context.Context) ([]model.User, error)
	AdminStats(ctx context.Context) (model.Stats, error)
	AdminDeleteMaterial(ctx context.Context, id string) error
	AdminDeleteUser(ctx context.Context, id string) error
	AdminUpdateUser(ctx context.Context, id string, in model.UserUpdate) (*model.User, error)
	AdminResetPassword(ctx context.Context, id, newPassword string) error
	AdminUserMaterials(ctx context.Context, id string) ([]model.Material, error)
}

// ProfileAPI is what the profile page calls directly.
type ProfileAPI interface {
	Me(ctx context.Context) (*model.User, error)
	ChangePassword(ctx context.Context, in model.PasswordChange) error
}
