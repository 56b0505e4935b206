// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds browser sessions and the per-visitor session store
// that mirrors the backend's view of who is signed in.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Keys used in the scs session.
const (
	KeyVisitorID  = "visitor_id"
	KeyAPICookies = "api_cookies"
	KeyFlash      = "flash"
	KeyFlashType  = "flash_type"
)

// Browser session cookie settings.
const (
	CookieName       = "himlearn_session"
	SecureCookieName = "__Host-himlearn_session"
	Lifetime         = 24 * time.Hour
	IdleTimeout      = 2 * time.Hour
)

// New returns a session manager backed by the sessions table in db.
// Outside development the cookie is Secure and host-bound.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = SecureCookieName
	}
	return sm
}
