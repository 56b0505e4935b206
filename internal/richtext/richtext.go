// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package richtext renders material descriptions as safe HTML.
// Descriptions arrive either as editor HTML or as plain text/markdown.
package richtext

import (
	"bytes"
	"html"
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()

	htmlTag    = regexp.MustCompile(`(?i)<\s*/?\s*[a-z][a-z0-9]*[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// LooksLikeHTML reports whether s contains markup.
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// Render converts a description to sanitized HTML.
func Render(description string) template.HTML {
	if strings.TrimSpace(description) == "" {
		return ""
	}

	src := description
	if !LooksLikeHTML(description) {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(description), &buf); err == nil {
			src = buf.String()
		} else {
			src = "<p>" + html.EscapeString(description) + "</p>"
		}
	}

	return template.HTML(ugc.Sanitize(src)) // #nosec G203 -- sanitized by bluemonday UGC policy
}

// Excerpt returns at most limit runes of plain text from a description.
func Excerpt(description string, limit int) string {
	text := html.UnescapeString(strict.Sanitize(description))
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
