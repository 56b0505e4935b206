// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the frontend's pages. Every handler talks to the
// backend through the requesting visitor's own API client.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/validation"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// renderPage renders a page with status 200, answering 500 when rendering fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, name string, data render.TemplateData) {
	renderPageStatus(w, r, renderer, http.StatusOK, name, data)
}

func renderPageStatus(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "error", err)
	}
}

// visitorClient returns the visitor's API client. A request that bypassed
// the visitor middleware gets a 500.
func visitorClient(w http.ResponseWriter, r *http.Request) (*api.Client, bool) {
	v := middleware.GetVisitor(r)
	if v == nil {
		logAndInternalError(w, "request has no visitor", "path", r.URL.Path)
		return nil, false
	}
	return v.Client, true
}

// requireUser returns the signed-in user or redirects to the login page.
func requireUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := middleware.CurrentUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return nil, false
	}
	return user, true
}

// confirmed reports whether a destructive form carried confirm=yes.
func confirmed(r *http.Request) bool {
	return r.PostFormValue(formConfirm) == formConfirmYes
}

func blogURL(id string) string {
	return fmt.Sprintf(redirectBlogID, id)
}

// ConfirmView is the data of the confirmation page that stands in for a
// confirm dialog.
type ConfirmView struct {
	Heading string
	Message string
	Action  string
	Cancel  string
}

// failureStatus picks the status of a page re-rendered after a failed
// action: 422 for input problems, the backend's 4xx, or 502.
func failureStatus(err error) int {
	var verrs validation.Errors
	var uerr service.UserError
	switch {
	case errors.As(err, &verrs), errors.As(err, &uerr):
		return http.StatusUnprocessableEntity
	}
	if code := api.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}
