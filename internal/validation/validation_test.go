// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Title string `form:"title" validate:"notblank"`
	Email string `form:"email" validate:"required,email"`
	Role  string `form:"role" validate:"oneof=user admin"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{"valid", sample{Title: "T", Email: "a@example.com", Role: "user"}, nil},
		{"blank title", sample{Title: "   ", Email: "a@example.com", Role: "admin"}, []string{"title"}},
		{"bad email and role", sample{Title: "T", Email: "nope", Role: "owner"}, []string{"email", "role"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(&tt.in)
			if len(tt.fields) == 0 {
				if errs != nil {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != len(tt.fields) {
				t.Fatalf("errors = %v, want fields %v", errs, tt.fields)
			}
			for _, f := range tt.fields {
				if !errs.Has(f) {
					t.Errorf("missing error for %s: %v", f, errs)
				}
			}
		})
	}
}

func TestMessages(t *testing.T) {
	errs := Struct(&sample{Title: "", Email: "x", Role: "owner"})

	if got := errs["title"]; got != "Title is required" {
		t.Errorf("title message = %q", got)
	}
	if got := errs["role"]; got != "Role must be one of: user, admin" {
		t.Errorf("role message = %q", got)
	}
	if !strings.Contains(errs.Error(), "email: Email must be a valid email address") {
		t.Errorf("Error() = %q", errs.Error())
	}
}

func TestHumanize(t *testing.T) {
	if got := humanize("new_password"); got != "New password" {
		t.Errorf("humanize = %q", got)
	}
}

func TestOnlyMissingAndFirst(t *testing.T) {
	missing := Struct(&sample{Email: "ann@example.com", Role: "user"})
	if !missing.OnlyMissing() {
		t.Errorf("OnlyMissing() = false for %v", missing)
	}
	if got := missing.First(); got != "" {
		t.Errorf("First() = %q, want empty", got)
	}

	mixed := Struct(&sample{Email: "x", Role: "owner"})
	if mixed.OnlyMissing() {
		t.Errorf("OnlyMissing() = true for %v", mixed)
	}
	if got := mixed.First(); got != "Email must be a valid email address" {
		t.Errorf("First() = %q", got)
	}
}
