// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/avatar"
	"github.com/olegiv/himlearn/internal/cache"
	"github.com/olegiv/himlearn/internal/imaging"
	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/session"
	"github.com/olegiv/himlearn/internal/testutil"
	"github.com/olegiv/himlearn/internal/version"
	"github.com/olegiv/himlearn/web"
)

const testUploadLimit = 5 << 20

// testApp is the full router in front of a fake backend, driven by one
// browser with a cookie jar.
type testApp struct {
	t        *testing.T
	backend  *testutil.FakeBackend
	db       *sql.DB
	registry *session.Registry
	sessions *scs.SessionManager
	server   *httptest.Server
	browser  *http.Client
}

type appOption func(*RouterConfig)

func withCSRF() appOption {
	return func(cfg *RouterConfig) {
		cfg.CSRF = middleware.CSRF(middleware.DefaultCSRFConfig([]byte("0123456789abcdef0123456789abcdef"), true, ""))
	}
}

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()

	backend := testutil.NewFakeBackend(t)
	db := testutil.TestDB(t)
	sm := testutil.TestSessionManager()
	reg := session.NewRegistry(func() (*api.Client, error) {
		return api.New(backend.URL())
	}, time.Hour)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		UserFunc:       middleware.CurrentUser,
		IsDev:          true,
	})
	require.NoError(t, err)

	mem := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })

	shared, err := api.New(backend.URL())
	require.NoError(t, err)
	media, err := NewMediaHandler(context.Background(), shared, mem, time.Minute)
	require.NoError(t, err)

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 1000, IPBurst: 1000})
	t.Cleanup(lp.Stop)

	static, err := fs.Sub(web.Static, "static/dist")
	require.NoError(t, err)

	events := service.NewEventService(db)
	cfg := RouterConfig{
		SessionManager:  sm,
		Registry:        reg,
		Renderer:        renderer,
		LoginProtection: lp,
		Security:        middleware.DefaultSecurityHeadersConfig(true),
		StaticFS:        static,
		ResolveWait:     2 * time.Second,
		RequestTimeout:  10 * time.Second,

		Auth:      NewAuthHandler(renderer, sm, events, lp),
		Frontend:  NewFrontendHandler(renderer),
		Materials: NewMaterialsHandler(renderer, service.NewEditor(mem, imaging.NewProcessor(testUploadLimit), time.Minute), testUploadLimit),
		Admin:     NewAdminHandler(renderer, events),
		Profile:   NewProfileHandler(renderer, avatar.NewChecker()),
		Media:     media,
		Health:    NewHealthHandler(db, mem, reg, version.Info{Version: "v1.2.3"}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httptest.NewServer(NewRouter(cfg))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		t:        t,
		backend:  backend,
		db:       db,
		registry: reg,
		sessions: sm,
		server:   srv,
		browser: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// response is a fully read response.
type response struct {
	Status   int
	Header   http.Header
	Body     string
	Location string
}

func (a *testApp) send(req *http.Request) response {
	a.t.Helper()
	resp, err := a.browser.Do(req)
	require.NoError(a.t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return response{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     string(body),
		Location: resp.Header.Get("Location"),
	}
}

func (a *testApp) get(path string) response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(a.t, err)
	return a.send(req)
}

func (a *testApp) post(path string, form url.Values) response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(a.t, err)
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return a.send(req)
}

// login signs the browser in and returns the user.
func (a *testApp) login(email, password string) {
	a.t.Helper()
	res := a.post(RouteLogin, url.Values{"email": {email}, "password": {password}})
	require.Equal(a.t, http.StatusSeeOther, res.Status, res.Body)
}

// sessionString reads key from the browser's current scs session.
func (a *testApp) sessionString(key string) string {
	a.t.Helper()
	u, err := url.Parse(a.server.URL)
	require.NoError(a.t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range a.browser.Jar.Cookies(u) {
		req.AddCookie(c)
	}
	var value string
	a.sessions.LoadAndSave(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		value = a.sessions.GetString(r.Context(), key)
	})).ServeHTTP(httptest.NewRecorder(), req)
	return value
}

// eventMessages returns the logged event messages, oldest first.
func (a *testApp) eventMessages() []string {
	a.t.Helper()
	rows, err := a.db.Query("SELECT message FROM events ORDER BY id")
	require.NoError(a.t, err)
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var m string
		require.NoError(a.t, rows.Scan(&m))
		out = append(out, m)
	}
	require.NoError(a.t, rows.Err())
	return out
}
