// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guard decides whether a route may render for the current session.
package guard

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/himlearn/internal/session"
)

// Requirements are a route's access conditions.
type Requirements struct {
	RequireAuth  bool
	RequireAdmin bool
}

// Decision is the outcome of evaluating Requirements.
type Decision int

const (
	Render Decision = iota
	Loading
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decide evaluates req against st. The first matching rule wins.
func Decide(st session.State, req Requirements) Decision {
	switch {
	case st.Loading:
		return Loading
	case req.RequireAuth && st.User == nil:
		return RedirectLogin
	case req.RequireAdmin && !st.User.IsAdmin():
		return RedirectHome
	default:
		return Render
	}
}

// StateFunc reads the session state for a request.
type StateFunc func(r *http.Request) session.State

// Middleware applies Decide on every request. Loading requests are served by loading.
func Middleware(req Requirements, state StateFunc, loading http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch d := Decide(state(r), req); d {
			case Render:
				next.ServeHTTP(w, r)
			case Loading:
				loading.ServeHTTP(w, r)
			case RedirectLogin:
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			case RedirectHome:
				slog.Warn("access denied: admin required", "path", r.URL.Path)
				http.Redirect(w, r, "/", http.StatusSeeOther)
			}
		})
	}
}
