// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package search filters materials and users by a free-text query.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/olegiv/himlearn/internal/model"
)

// Match reports whether query is a case-insensitive substring of any field.
// An empty query matches everything.
func Match(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	q := fold.String(query)
	for _, f := range fields {
		if strings.Contains(fold.String(f), q) {
			return true
		}
	}
	return false
}

// Materials keeps materials whose title, description or author name contain query.
// An empty query returns list unchanged.
func Materials(list []model.Material, query string) []model.Material {
	if query == "" {
		return list
	}
	out := make([]model.Material, 0, len(list))
	for _, m := range list {
		if Match(query, m.Title, m.Description, m.AuthorName) {
			out = append(out, m)
		}
	}
	return out
}

// Users keeps users whose name or email contain query.
func Users(list []model.User, query string) []model.User {
	if query == "" {
		return list
	}
	out := make([]model.User, 0, len(list))
	for _, u := range list {
		if Match(query, u.Name, u.Email) {
			out = append(out, u)
		}
	}
	return out
}
