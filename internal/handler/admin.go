// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/paging"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/search"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/validation"
)

// AdminHandler serves the admin dashboard and its actions.
type AdminHandler struct {
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, events *service.EventService) *AdminHandler {
	return &AdminHandler{renderer: renderer, eventService: events}
}

// AdminView is the data of the admin page.
type AdminView struct {
	Tab       string
	Query     string
	Error     string
	Stats     model.Stats
	Recent    []model.Material
	Materials []model.Material
	Users     []model.User

	Activity      []ActivityRow
	ActivityPager paging.Pager
	ActivityError string

	EditUser      *UserPanel
	ResetPassword *ResetPasswordPanel
	ViewUser      *ViewUserPanel
}

// UserPanel is the edit-user panel.
type UserPanel struct {
	User   model.User
	Form   service.UserForm
	Errors validation.Errors
	Error  string
}

// ResetPasswordPanel is the reset-password panel.
type ResetPasswordPanel struct {
	User   model.User
	Errors validation.Errors
	Error  string
}

// ViewUserPanel lists one user's materials.
type ViewUserPanel struct {
	User      model.User
	Materials []model.Material
	Error     string
}

// requireAdmin re-checks the role before anything is fetched.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := middleware.CurrentUser(r)
	if !user.IsAdmin() {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return nil, false
	}
	return user, true
}

func normalizeTab(tab string) string {
	switch tab {
	case tabMaterials, tabUsers, tabActivity:
		return tab
	default:
		return tabDashboard
	}
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	q := r.URL.Query()
	h.show(w, r, http.StatusOK, AdminView{
		Tab:   normalizeTab(q.Get("tab")),
		Query: strings.TrimSpace(q.Get("q")),
	})
}

// show loads the dashboard and renders view. Panels already set by a failed
// action are kept; otherwise they come from the query string.
func (h *AdminHandler) show(w http.ResponseWriter, r *http.Request, status int, view AdminView) {
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	d, err := service.LoadDashboard(ctx, c)
	if err != nil {
		view.Error = service.MsgFetchAdminFailed
		renderPageStatus(w, r, h.renderer, status, "admin", render.TemplateData{Title: "Admin Panel", Data: view})
		return
	}

	view.Stats = d.Stats
	view.Recent = d.Recent(service.RecentCount)
	view.Materials = d.Materials
	view.Users = d.Users
	switch view.Tab {
	case tabMaterials:
		view.Materials = search.Materials(d.Materials, view.Query)
	case tabUsers:
		view.Users = search.Users(d.Users, view.Query)
	case tabActivity:
		page := paging.PageParam(r)
		events, total, err := h.eventService.ActivityPage(ctx, page, service.DefaultActivityLimit)
		if err != nil {
			slog.Error("failed to list activity", "error", err)
			view.ActivityError = "Failed to load activity"
		}
		view.Activity = activityRows(events)
		view.ActivityPager = paging.New(page, total, service.DefaultActivityLimit, RouteAdmin, r.URL.Query())
	}

	q := r.URL.Query()
	if view.EditUser == nil {
		if u, ok := d.FindUser(q.Get("edit_user")); ok {
			view.EditUser = &UserPanel{User: u, Form: service.FormFor(u)}
		}
	}
	if view.ResetPassword == nil {
		if u, ok := d.FindUser(q.Get("reset_pw")); ok {
			view.ResetPassword = &ResetPasswordPanel{User: u}
		}
	}
	if view.ViewUser == nil {
		if u, ok := d.FindUser(q.Get("view_user")); ok {
			panel := &ViewUserPanel{User: u}
			list, err := service.UserMaterials(ctx, c, u.ID)
			if err != nil {
				panel.Error = service.MsgFetchUserMaterialsFailed
			}
			panel.Materials = list
			view.ViewUser = panel
		}
	}

	renderPageStatus(w, r, h.renderer, status, "admin", render.TemplateData{Title: "Admin Panel", Data: view})
}

// ConfirmDeleteMaterial handles GET /admin/materials/{id}/delete.
func (h *AdminHandler) ConfirmDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	name := "this learning material"
	if m, err := c.GetMaterial(r.Context(), id); err == nil {
		name = "\"" + m.Title + "\""
	}
	renderConfirm(w, r, h.renderer, ConfirmView{
		Heading: "Delete learning material",
		Message: "Are you sure you want to delete " + name + "? This cannot be undone.",
		Action:  RouteAdmin + "/materials/" + url.PathEscape(id) + RouteSuffixDelete,
		Cancel:  redirectAdminMaterials,
	})
}

// DeleteMaterial handles POST /admin/materials/{id}/delete.
func (h *AdminHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminMaterials) {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	err := service.AdminDeleteMaterial(r.Context(), c, admin, chi.URLParam(r, "id"), confirmed(r))
	switch {
	case errors.Is(err, service.ErrNotConfirmed):
		http.Redirect(w, r, redirectAdminMaterials, http.StatusSeeOther)
	case err != nil:
		flashError(w, r, h.renderer, redirectAdminMaterials, service.Message(err, service.MsgDeleteMaterialFailed))
	default:
		flashSuccess(w, r, h.renderer, redirectAdminMaterials, service.MsgMaterialDeleted)
	}
}

// ConfirmDeleteUser handles GET /admin/users/{id}/delete.
func (h *AdminHandler) ConfirmDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	name := "this user"
	if u, found := findUser(r, c, id); found {
		name = u.Name + " (" + u.Email + ")"
	}
	renderConfirm(w, r, h.renderer, ConfirmView{
		Heading: "Delete user",
		Message: "Are you sure you want to delete " + name + "? Their learning materials will be deleted too.",
		Action:  RouteAdmin + "/users/" + url.PathEscape(id) + RouteSuffixDelete,
		Cancel:  redirectAdminUsers,
	})
}

// DeleteUser handles POST /admin/users/{id}/delete.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	err := service.AdminDeleteUser(r.Context(), c, admin, chi.URLParam(r, "id"), confirmed(r))
	switch {
	case errors.Is(err, service.ErrNotConfirmed):
		http.Redirect(w, r, redirectAdminUsers, http.StatusSeeOther)
	case err != nil:
		flashError(w, r, h.renderer, redirectAdminUsers, service.Message(err, service.MsgDeleteUserFailed))
	default:
		flashSuccess(w, r, h.renderer, redirectAdminUsers, service.MsgUserDeleted)
	}
}

// UpdateUser handles POST /admin/users/{id}.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	existing, found := findUser(r, c, id)
	if !found {
		flashError(w, r, h.renderer, redirectAdminUsers, service.MsgUpdateUserFailed)
		return
	}

	form := service.UserForm{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Role:  r.PostFormValue("role"),
	}
	if _, err := service.EditUser(r.Context(), c, admin, existing, form); err != nil {
		panel := &UserPanel{User: existing, Form: form, Error: service.Message(err, service.MsgUpdateUserFailed)}
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			panel.Errors = verrs
		}
		h.show(w, r, failureStatus(err), AdminView{Tab: tabUsers, EditUser: panel})
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminUsers, service.MsgUserUpdated)
}

// ResetPassword handles POST /admin/users/{id}/password.
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	form := service.ResetPasswordForm{NewPassword: r.PostFormValue("new_password")}
	if err := service.ResetPassword(r.Context(), c, admin, id, form); err != nil {
		existing, _ := findUser(r, c, id)
		panel := &ResetPasswordPanel{User: existing, Error: service.Message(err, service.MsgResetPasswordFailed)}
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			panel.Errors = verrs
		}
		h.show(w, r, failureStatus(err), AdminView{Tab: tabUsers, ResetPassword: panel})
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminUsers, service.MsgPasswordReset)
}

// findUser looks a user up in the admin user list.
func findUser(r *http.Request, c service.AdminAPI, id string) (model.User, bool) {
	users, err := c.AdminUsers(r.Context())
	if err != nil {
		slog.Warn("failed to fetch users", "category", model.EventCategoryAPI, "error", err)
		return model.User{}, false
	}
	d := service.Dashboard{Users: users}
	return d.FindUser(id)
}
