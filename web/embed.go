// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the page templates and the built browser assets.
package web

import "embed"

// Templates holds layouts/, partials/ and pages/.
//
//go:embed templates/layouts/*.html templates/partials/*.html templates/pages/*.html
var Templates embed.FS

// Static holds the files served under /static/dist/.
//
//go:embed static/dist/*.css static/dist/*.js
var Static embed.FS
