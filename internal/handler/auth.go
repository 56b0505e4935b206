// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/session"
	"github.com/olegiv/himlearn/internal/validation"
)

// AuthHandler handles login, signup and logout.
type AuthHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, events *service.EventService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    events,
		loginProtection: lp,
	}
}

// LoginForm is the login and admin login form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// SignupForm is the signup form.
type SignupForm struct {
	Name     string `form:"name" validate:"notblank"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// authPage describes one of the login style pages.
type authPage struct {
	template string
	title    string
	success  string // redirect target after signing in
	admin    bool
}

var (
	loginPage      = authPage{template: "login", title: "Login", success: RouteRoot}
	adminLoginPage = authPage{template: "admin_login", title: "Admin Login", success: RouteAdmin, admin: true}
)

// LoginForm renders the login page. Signed-in users go home.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.showForm(w, r, loginPage)
}

// AdminLoginForm renders the admin login page.
func (h *AuthHandler) AdminLoginForm(w http.ResponseWriter, r *http.Request) {
	h.showForm(w, r, adminLoginPage)
}

func (h *AuthHandler) showForm(w http.ResponseWriter, r *http.Request, page authPage) {
	if user := middleware.CurrentUser(r); user != nil {
		target := RouteRoot
		if user.IsAdmin() && page.admin {
			target = RouteAdmin
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, page.template, render.TemplateData{
		Title: page.title,
		Form:  LoginForm{},
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, loginPage)
}

// AdminLogin handles the admin login form submission.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, adminLoginPage)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, page authPage) {
	if !parseFormOrRedirect(w, r, h.renderer, r.URL.Path) {
		return
	}
	v := middleware.GetVisitor(r)
	if v == nil {
		logAndInternalError(w, "request has no visitor", "path", r.URL.Path)
		return
	}

	form := LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	// Never echo the password back into the page.
	echo := LoginForm{Email: form.Email}

	if errs := validation.Struct(form); errs != nil {
		renderPageStatus(w, r, h.renderer, http.StatusUnprocessableEntity, page.template, render.TemplateData{
			Title: page.title, Form: echo, Errors: errs,
		})
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(form.Email); locked {
		h.logAuth(r.Context(), r, model.EventLevelWarning, "Login blocked: account locked", form.Email, "remaining", remaining.String())
		h.renderAuthError(w, r, page, http.StatusTooManyRequests, echo, lockedMessage(remaining))
		return
	}

	var res session.Result
	if page.admin {
		res = v.Store.AdminLogin(r.Context(), form.Email, form.Password)
	} else {
		res = v.Store.Login(r.Context(), form.Email, form.Password)
	}

	if !res.Success {
		locked, lockFor := h.loginProtection.RecordFailedAttempt(form.Email)
		h.logAuth(r.Context(), r, model.EventLevelWarning, "Login failed", form.Email, "admin", page.admin, "reason", res.Message)
		message := res.Message
		if locked {
			message = lockedMessage(lockFor)
		}
		h.renderAuthError(w, r, page, http.StatusUnauthorized, echo, message)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(form.Email)
	h.renewToken(r)
	h.logAuth(r.Context(), r, model.EventLevelInfo, "User logged in", form.Email, "admin", page.admin)
	http.Redirect(w, r, page.success, http.StatusSeeOther)
}

// SignupForm renders the signup page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, "signup", render.TemplateData{
		Title: "Sign Up",
		Form:  SignupForm{},
	})
}

// Signup handles the signup form submission.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteSignup) {
		return
	}
	v := middleware.GetVisitor(r)
	if v == nil {
		logAndInternalError(w, "request has no visitor", "path", r.URL.Path)
		return
	}

	form := SignupForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	echo := SignupForm{Name: form.Name, Email: form.Email}

	if errs := validation.Struct(form); errs != nil {
		renderPageStatus(w, r, h.renderer, http.StatusUnprocessableEntity, "signup", render.TemplateData{
			Title: "Sign Up", Form: echo, Errors: errs,
		})
		return
	}

	res := v.Store.Signup(r.Context(), form.Name, form.Email, form.Password)
	if !res.Success {
		h.logAuth(r.Context(), r, model.EventLevelInfo, "Signup rejected", form.Email, "reason", res.Message)
		renderPageStatus(w, r, h.renderer, http.StatusUnprocessableEntity, "signup", render.TemplateData{
			Title: "Sign Up", Form: echo, Flash: res.Message, FlashType: render.FlashError,
		})
		return
	}

	h.renewToken(r)
	h.logAuth(r.Context(), r, model.EventLevelInfo, "User signed up", form.Email)
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// Logout ends the backend session and clears the local one.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	v := middleware.GetVisitor(r)
	if v == nil {
		logAndInternalError(w, "request has no visitor", "path", r.URL.Path)
		return
	}

	email := ""
	if u := v.Store.State().User; u != nil {
		email = u.Email
	}
	v.Store.Logout(r.Context())
	h.sessionManager.Remove(r.Context(), session.KeyAPICookies)
	h.renewToken(r)
	if email != "" {
		h.logAuth(r.Context(), r, model.EventLevelInfo, "User logged out", email)
	}
	http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
}

func (h *AuthHandler) renderAuthError(w http.ResponseWriter, r *http.Request, page authPage, status int, form LoginForm, message string) {
	renderPageStatus(w, r, h.renderer, status, page.template, render.TemplateData{
		Title:     page.title,
		Form:      form,
		Flash:     message,
		FlashType: render.FlashError,
	})
}

// renewToken rotates the browser session token after a privilege change.
func (h *AuthHandler) renewToken(r *http.Request) {
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token", "error", err)
	}
}

// logAuth records an auth event with the client's address and browser.
func (h *AuthHandler) logAuth(ctx context.Context, r *http.Request, level, message, email string, extra ...any) {
	info := middleware.Client(r)
	metadata := map[string]any{
		"email":   email,
		"ip":      info.IP,
		"browser": info.Browser,
		"os":      info.OS,
		"device":  info.DeviceType,
	}
	for i := 0; i+1 < len(extra); i += 2 {
		if key, ok := extra[i].(string); ok {
			metadata[key] = extra[i+1]
		}
	}
	if err := h.eventService.LogAuthEvent(ctx, level, message, middleware.VisitorID(r), metadata); err != nil {
		slog.Error("failed to log auth event", "error", err)
	}
}

// lockedMessage tells the visitor how long the account stays locked.
func lockedMessage(d time.Duration) string {
	minutes := int(math.Ceil(d.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Too many failed login attempts. Try again in %d minute(s).", minutes)
}
