// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package policy

import (
	"encoding/json"
	"testing"

	"github.com/olegiv/himlearn/internal/model"
)

func TestFor(t *testing.T) {
	author := &model.User{ID: "u1", Role: model.RoleUser}
	other := &model.User{ID: "u2", Role: model.RoleUser}
	admin := &model.User{ID: "u3", Role: model.RoleAdmin}
	m := &model.Material{ID: "m1", Author: model.OwnerRef{ID: "u1"}, Likes: []string{"u2"}}

	tests := []struct {
		name string
		user *model.User
		want Capabilities
	}{
		{"anonymous", nil, Capabilities{}},
		{"author", author, Capabilities{IsAuthor: true, CanEdit: true, CanDelete: true, CanModerate: true, CanLike: true, CanComment: true}},
		{"other user who liked", other, Capabilities{IsLiked: true, CanLike: true, CanComment: true}},
		{"admin", admin, Capabilities{IsAdmin: true, CanEdit: true, CanDelete: true, CanModerate: true, CanLike: true, CanComment: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := For(tt.user, m); got != tt.want {
				t.Errorf("For = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestForOwnerRepresentations(t *testing.T) {
	u := &model.User{ID: "u1"}
	for _, raw := range []string{
		`{"_id":"m1","author":"u1"}`,
		`{"_id":"m1","author":{"_id":"u1","name":"Ann"}}`,
	} {
		var m model.Material
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatal(err)
		}
		if !For(u, &m).IsAuthor {
			t.Errorf("IsAuthor false for %s", raw)
		}
	}
}

func TestForEmptyIDsNeverMatch(t *testing.T) {
	c := For(&model.User{}, &model.Material{})
	if c.IsAuthor || c.CanEdit {
		t.Errorf("empty ids matched: %+v", c)
	}
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want []string
	}{
		{"anonymous", nil, []string{"/"}},
		{"user", &model.User{Role: model.RoleUser}, []string{"/", "/create"}},
		{"admin", &model.User{Role: model.RoleAdmin}, []string{"/", "/create", "/admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Navigation(tt.user)
			if len(got) != len(tt.want) {
				t.Fatalf("Navigation = %+v, want paths %v", got, tt.want)
			}
			for i, item := range got {
				if item.Path != tt.want[i] {
					t.Errorf("item %d path = %q, want %q", i, item.Path, tt.want[i])
				}
			}
		})
	}
}
