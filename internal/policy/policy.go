// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package policy derives what the current user may do with a material and
// which navigation entries they see.
package policy

import "github.com/olegiv/himlearn/internal/model"

// Capabilities is computed once per render from the user and the material.
type Capabilities struct {
	IsLiked     bool
	IsAuthor    bool
	IsAdmin     bool
	CanEdit     bool
	CanDelete   bool
	CanModerate bool // may delete any comment
	CanLike     bool
	CanComment  bool
}

// For returns the capabilities of u on m. A nil user gets none.
func For(u *model.User, m *model.Material) Capabilities {
	if u == nil || m == nil {
		return Capabilities{}
	}

	c := Capabilities{
		IsLiked:    m.LikedBy(u.ID),
		IsAuthor:   u.ID != "" && m.Author.ID == u.ID,
		IsAdmin:    u.IsAdmin(),
		CanLike:    true,
		CanComment: true,
	}
	owner := c.IsAuthor || c.IsAdmin
	c.CanEdit = owner
	c.CanDelete = owner
	c.CanModerate = owner
	return c
}

// NavItem is one navigation link.
type NavItem struct {
	Label string
	Path  string
}

// Navigation returns the links shown to u.
func Navigation(u *model.User) []NavItem {
	items := []NavItem{{Label: "Learning Materials", Path: "/"}}
	if u == nil {
		return items
	}
	items = append(items, NavItem{Label: "Create Material", Path: "/create"})
	if u.IsAdmin() {
		items = append(items, NavItem{Label: "Admin Panel", Path: "/admin"})
	}
	return items
}
