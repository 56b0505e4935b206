// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path"
	"strings"
)

// MediaRef normalizes the image reference taken from a /media/* URL into
// the absolute path the backend serves it under. It reports false for
// empty references and for anything that could leave the backend's media
// root: ".." segments, backslashes, NUL bytes and encoded separators.
func MediaRef(raw string) (string, bool) {
	if raw == "" || strings.ContainsAny(raw, "\\\x00") {
		return "", false
	}
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "%2f") || strings.Contains(lower, "%5c") || strings.Contains(lower, "%2e") {
		return "", false
	}
	for _, seg := range strings.Split(raw, "/") {
		if seg == ".." {
			return "", false
		}
	}
	ref := path.Clean("/" + strings.TrimLeft(raw, "/"))
	if ref == "/" {
		return "", false
	}
	return ref, true
}
