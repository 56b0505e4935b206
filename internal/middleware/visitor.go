// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for visitor binding, access
// control, rate limiting and response hardening.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyVisitor holds the request's *session.Visitor.
const ContextKeyVisitor ContextKey = "visitor"

// DefaultResolveWait is how long a request waits for a new visitor's first
// resolve before the loading page is shown.
const DefaultResolveWait = 2 * time.Second

// Visitors binds each browser session to a visitor in reg. A new visitor is
// resolved in the background; the request waits up to wait for it. Backend
// cookies are written back to the browser session before the response starts.
func Visitors(sm *scs.SessionManager, reg *session.Registry, wait time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id := sm.GetString(ctx, session.KeyVisitorID)
			if id == "" {
				id = uuid.NewString()
				sm.Put(ctx, session.KeyVisitorID, id)
			}

			stored := sm.GetString(ctx, session.KeyAPICookies)
			v, created, err := reg.Get(id, session.DecodeCookies(stored))
			if err != nil {
				slog.Error("failed to bind visitor", "error", err, "category", model.EventCategorySystem)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if created {
				go v.Store.Resolve(context.WithoutCancel(ctx))
			}
			waitResolved(ctx, v, wait)

			pw := &persistWriter{ResponseWriter: w, persist: func() {
				persistCookies(ctx, sm, v, stored)
			}}
			next.ServeHTTP(pw, r.WithContext(context.WithValue(ctx, ContextKeyVisitor, v)))
			pw.flushPersist()
		})
	}
}

func waitResolved(ctx context.Context, v *session.Visitor, wait time.Duration) {
	if wait <= 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-v.Store.Resolved():
	case <-timer.C:
	case <-ctx.Done():
	}
}

// persistCookies stores the client's current backend cookies when they differ
// from what the browser session already holds.
func persistCookies(ctx context.Context, sm *scs.SessionManager, v *session.Visitor, stored string) {
	v.RefreshCredential()
	current := session.EncodeCookies(v.Client.Cookies())
	if current == stored {
		return
	}
	if current == "" {
		sm.Remove(ctx, session.KeyAPICookies)
		return
	}
	sm.Put(ctx, session.KeyAPICookies, current)
}

// persistWriter runs persist once, just before the status line is written.
type persistWriter struct {
	http.ResponseWriter
	once    sync.Once
	persist func()
}

func (pw *persistWriter) flushPersist() {
	pw.once.Do(pw.persist)
}

func (pw *persistWriter) WriteHeader(code int) {
	pw.flushPersist()
	pw.ResponseWriter.WriteHeader(code)
}

func (pw *persistWriter) Write(b []byte) (int, error) {
	pw.flushPersist()
	return pw.ResponseWriter.Write(b)
}

func (pw *persistWriter) Unwrap() http.ResponseWriter {
	return pw.ResponseWriter
}

// GetVisitor returns the request's visitor, or nil outside Visitors.
func GetVisitor(r *http.Request) *session.Visitor {
	v, _ := r.Context().Value(ContextKeyVisitor).(*session.Visitor)
	return v
}

// State returns the visitor's session state. Requests without a visitor are
// anonymous.
func State(r *http.Request) session.State {
	v := GetVisitor(r)
	if v == nil {
		return session.State{}
	}
	return v.Store.State()
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(r *http.Request) *model.User {
	return State(r).User
}

// VisitorID returns the visitor id, or "" outside Visitors.
func VisitorID(r *http.Request) string {
	if v := GetVisitor(r); v != nil {
		return v.ID
	}
	return ""
}
