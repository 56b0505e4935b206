// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/himlearn/internal/render"
)

// LoadingRefreshSeconds is how often the loading page reloads itself.
const LoadingRefreshSeconds = 1

// LoadingPage is shown while a new visitor's session is still being
// resolved. It reloads itself until the guard lets the page through.
func LoadingPage(renderer *render.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		renderPage(w, r, renderer, "loading", render.TemplateData{
			Title: "Loading",
			Data:  LoadingRefreshSeconds,
		})
	})
}

// NotFound sends unknown paths to the home page.
func NotFound(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// renderConfirm renders the confirmation step of a destructive action.
func renderConfirm(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, view ConfirmView) {
	renderPage(w, r, renderer, "confirm", render.TemplateData{
		Title: view.Heading,
		Data:  view,
	})
}
