// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/himlearn/internal/guard"
	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/session"
)

// staticMaxAge is the Cache-Control max-age of embedded assets and the placeholder.
const staticMaxAge = 86400

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	SessionManager  *scs.SessionManager
	Registry        *session.Registry
	Renderer        *render.Renderer
	LoginProtection *middleware.LoginProtection
	RateLimiter     *middleware.GlobalRateLimiter // optional
	CSRF            func(http.Handler) http.Handler
	Security        middleware.SecurityHeadersConfig
	StaticFS        fs.FS // served under /static/dist, optional
	ResolveWait     time.Duration
	RequestTimeout  time.Duration
	RequestLogging  bool

	Auth      *AuthHandler
	Frontend  *FrontendHandler
	Materials *MaterialsHandler
	Admin     *AdminHandler
	Profile   *ProfileHandler
	Media     *MediaHandler
	Health    *HealthHandler
}

// NewRouter builds the application router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(cfg.Security))

	// Assets and health do not touch the browser session.
	if cfg.StaticFS != nil {
		r.With(middleware.StaticCache(staticMaxAge)).
			Handle("/static/dist/*", http.StripPrefix("/static/dist/", http.FileServerFS(cfg.StaticFS)))
	}
	r.Get(RouteHealth+"/live", cfg.Health.Liveness)
	r.With(middleware.StaticCache(staticMaxAge)).Get(RouteMedia+"/placeholder.png", cfg.Media.Placeholder)
	r.Get(RouteMedia+"/*", cfg.Media.Serve)

	r.Group(func(r chi.Router) {
		r.Use(cfg.SessionManager.LoadAndSave)
		r.Use(middleware.Visitors(cfg.SessionManager, cfg.Registry, cfg.ResolveWait))
		r.Use(middleware.NoStore)
		if cfg.CSRF != nil {
			r.Use(cfg.CSRF)
		}
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.HTMLMiddleware())
		}

		loading := LoadingPage(cfg.Renderer)
		public := guard.Middleware(guard.Requirements{}, middleware.State, loading)
		authed := guard.Middleware(guard.Requirements{RequireAuth: true}, middleware.State, loading)
		admin := guard.Middleware(guard.Requirements{RequireAuth: true, RequireAdmin: true}, middleware.State, loading)

		r.Get(RouteHealth, cfg.Health.Health)

		// Auth forms
		r.Group(func(r chi.Router) {
			r.Use(public)
			r.Use(cfg.LoginProtection.Middleware())
			r.Get(RouteLogin, cfg.Auth.LoginForm)
			r.Post(RouteLogin, cfg.Auth.Login)
			r.Get(RouteSignup, cfg.Auth.SignupForm)
			r.Post(RouteSignup, cfg.Auth.Signup)
			r.Get(RouteAdminLogin, cfg.Auth.AdminLoginForm)
			r.Post(RouteAdminLogin, cfg.Auth.AdminLogin)
		})
		r.Post(RouteLogout, cfg.Auth.Logout)

		// Public pages
		r.Group(func(r chi.Router) {
			r.Use(public)
			r.Get(RouteRoot, cfg.Frontend.Home)
			r.Route(RouteBlog+RouteParamID, func(r chi.Router) {
				r.Get(RouteRoot, cfg.Frontend.Detail)
				r.Post(RouteSuffixLike, cfg.Frontend.Like)
				r.Post(RouteSuffixComment, cfg.Frontend.Comment)
				r.Post(RouteSuffixComment+"/{commentID}"+RouteSuffixDelete, cfg.Frontend.DeleteComment)
				r.With(authed).Get(RouteSuffixDelete, cfg.Frontend.ConfirmDelete)
				r.With(authed).Post(RouteSuffixDelete, cfg.Frontend.Delete)
			})
		})

		// Signed-in pages
		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get(RouteCreate, cfg.Materials.New)
			r.Post(RouteCreate, cfg.Materials.Create)
			r.Get(RouteEdit, cfg.Materials.Edit)
			r.Post(RouteEdit, cfg.Materials.Update)
			r.Get(RouteProfile, cfg.Profile.Show)
			r.Post(RouteProfile, cfg.Profile.Update)
			r.Post(RouteProfile+RouteSuffixPassword, cfg.Profile.Password)
		})

		// Admin
		r.Route(RouteAdmin, func(r chi.Router) {
			r.Use(admin)
			r.Get(RouteRoot, cfg.Admin.Dashboard)
			r.Get("/materials"+RouteParamID+RouteSuffixDelete, cfg.Admin.ConfirmDeleteMaterial)
			r.Post("/materials"+RouteParamID+RouteSuffixDelete, cfg.Admin.DeleteMaterial)
			r.Get("/users"+RouteParamID+RouteSuffixDelete, cfg.Admin.ConfirmDeleteUser)
			r.Post("/users"+RouteParamID+RouteSuffixDelete, cfg.Admin.DeleteUser)
			r.Post("/users"+RouteParamID, cfg.Admin.UpdateUser)
			r.Post("/users"+RouteParamID+RouteSuffixPassword, cfg.Admin.ResetPassword)
		})
	})

	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	return r
}
