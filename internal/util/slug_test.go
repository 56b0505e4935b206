// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":        "hello-world",
		"  Café  au   lait ": "cafe-au-lait",
		"snake_case_name":    "snake-case-name",
		"a -- b":             "a-b",
		"!!!":                "",
		"Über Größe":         "uber-groe",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"My Photo.JPG", "my-photo"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\ann\cover.png`, "cover"},
		{"Привет мир.png", "privet-mir"},
		{"???.png", "image"},
		{"", "image"},
		{strings.Repeat("a", 100) + ".png", strings.Repeat("a", maxStemLen)},
	}
	for _, tt := range tests {
		if got := FileStem(tt.name, "image"); got != tt.want {
			t.Errorf("FileStem(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
