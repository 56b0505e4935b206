// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/policy"
)

// DetailView is the detail page model.
type DetailView struct {
	Material *model.Material
	Caps     policy.Capabilities
	Error    string
}

// Found reports whether the material loaded.
func (v DetailView) Found() bool {
	return v.Material != nil
}

// LoadDetail fetches one material and computes what user may do with it.
func LoadDetail(ctx context.Context, client DetailAPI, user *model.User, id string) DetailView {
	m, err := client.GetMaterial(ctx, id)
	if err != nil {
		slog.Info("material not loaded", "category", model.EventCategoryAPI, "material_id", id, "error", err)
		return DetailView{Error: MsgMaterialNotFound}
	}
	return DetailView{Material: m, Caps: policy.For(user, m)}
}

// Like toggles the caller's like and returns the server's like state.
func Like(ctx context.Context, client DetailAPI, id string) (model.LikeState, error) {
	state, err := client.ToggleLike(ctx, id)
	if err != nil {
		return model.LikeState{}, fmt.Errorf("toggling like on %s: %w", id, err)
	}
	return state, nil
}

// AddComment posts content and returns the server's comment list. Blank
// content returns ErrEmptyComment without a request.
func AddComment(ctx context.Context, client DetailAPI, id, content string) ([]model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	comments, err := client.AddComment(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("adding comment to %s: %w", id, err)
	}
	return comments, nil
}

// DeleteComment removes a comment. The caller must hold CanModerate; the
// server decides in the end.
func DeleteComment(ctx context.Context, client DetailAPI, user *model.User, id, commentID string) error {
	if err := client.DeleteComment(ctx, id, commentID); err != nil {
		return fmt.Errorf("deleting comment %s: %w", commentID, err)
	}
	if user.IsAdmin() {
		slog.Info("comment removed by admin", "category", model.EventCategoryModeration,
			"material_id", id, "comment_id", commentID, "admin_id", user.ID)
	}
	return nil
}

// DeleteMaterial removes a material once the visitor has confirmed.
func DeleteMaterial(ctx context.Context, client DetailAPI, user *model.User, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := client.DeleteMaterial(ctx, id); err != nil {
		return fmt.Errorf("deleting material %s: %w", id, err)
	}
	slog.Info("material deleted", "category", model.EventCategoryContent, "material_id", id, "user_id", userID(user))
	return nil
}

func userID(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
