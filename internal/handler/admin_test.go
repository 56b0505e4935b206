// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/service"
)

// adminApp returns an app with an admin signed in, plus a regular user who
// owns one material.
func adminApp(t *testing.T) (*testApp, model.User, model.Material) {
	t.Helper()
	app := newTestApp(t)
	app.backend.AddUser("Root", "root@example.com", "toor", model.RoleAdmin)
	ann := app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	m := app.backend.AddMaterial(ann.ID, "Go Concurrency", "Channels")
	res := app.post(RouteAdminLogin, url.Values{"email": {"root@example.com"}, "password": {"toor"}})
	require.Equal(t, http.StatusSeeOther, res.Status, res.Body)
	return app, ann, m
}

func TestAdminDashboard(t *testing.T) {
	app, _, _ := adminApp(t)

	res := app.get(RouteAdmin)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Recent Learning Materials")
	assert.Contains(t, res.Body, "Go Concurrency")

	materials := app.get(redirectAdminMaterials + "&q=concurrency")
	assert.Contains(t, materials.Body, "/admin/materials/")
	none := app.get(redirectAdminMaterials + "&q=haskell")
	assert.Contains(t, none.Body, "No learning materials found.")

	users := app.get(redirectAdminUsers + "&q=ann")
	assert.Contains(t, users.Body, "ann@example.com")
	assert.NotContains(t, users.Body, "root@example.com")
}

func TestAdminDashboardFailure(t *testing.T) {
	app, _, _ := adminApp(t)
	app.backend.Fail(http.MethodGet, "/api/admin/stats", http.StatusInternalServerError, "boom")

	res := app.get(RouteAdmin)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, service.MsgFetchAdminFailed)
}

func TestAdminDeleteMaterial(t *testing.T) {
	app, _, m := adminApp(t)
	path := RouteAdmin + "/materials/" + m.ID + RouteSuffixDelete

	confirm := app.get(path)
	require.Equal(t, http.StatusOK, confirm.Status)
	assert.Contains(t, confirm.Body, "Go Concurrency")

	res := app.post(path, nil)
	assert.Equal(t, redirectAdminMaterials, res.Location)
	assert.Equal(t, 1, app.backend.MaterialCount())

	lists := app.backend.CountRequests(http.MethodGet, "/api/admin/blogs")
	res = app.post(path, url.Values{formConfirm: {formConfirmYes}})
	assert.Equal(t, redirectAdminMaterials, res.Location)
	assert.Zero(t, app.backend.MaterialCount())
	assert.Equal(t, lists, app.backend.CountRequests(http.MethodGet, "/api/admin/blogs"), "delete alone fetches no list")

	page := app.get(res.Location)
	assert.Contains(t, page.Body, service.MsgMaterialDeleted)
	assert.Contains(t, page.Body, "No learning materials found.")
}

func TestAdminDeleteUser(t *testing.T) {
	app, ann, _ := adminApp(t)
	path := RouteAdmin + "/users/" + ann.ID + RouteSuffixDelete

	confirm := app.get(path)
	require.Equal(t, http.StatusOK, confirm.Status)
	assert.Contains(t, confirm.Body, "ann@example.com")

	lists := app.backend.CountRequests(http.MethodGet, "/api/admin/blogs")
	res := app.post(path, url.Values{formConfirm: {formConfirmYes}})
	require.Equal(t, redirectAdminUsers, res.Location)
	_, exists := app.backend.User(ann.ID)
	assert.False(t, exists)
	assert.Equal(t, lists, app.backend.CountRequests(http.MethodGet, "/api/admin/blogs"), "delete alone fetches no list")

	page := app.get(res.Location)
	assert.Contains(t, page.Body, service.MsgUserDeleted)
	assert.NotContains(t, page.Body, "ann@example.com")
}

func TestAdminUpdateUser(t *testing.T) {
	app, ann, _ := adminApp(t)

	panel := app.get(redirectAdminUsers + "&edit_user=" + ann.ID)
	assert.Contains(t, panel.Body, "Edit Ann")

	res := app.post(RouteAdmin+"/users/"+ann.ID, url.Values{"name": {"Ann B"}, "email": {"ann@example.com"}, "role": {"superuser"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Body, "Role must be one of")
	assert.Contains(t, res.Body, `value="Ann B"`)

	res = app.post(RouteAdmin+"/users/"+ann.ID, url.Values{"name": {"Ann B"}, "email": {"ann@example.com"}, "role": {model.RoleAdmin}})
	require.Equal(t, http.StatusSeeOther, res.Status, res.Body)
	stored, _ := app.backend.User(ann.ID)
	assert.Equal(t, "Ann B", stored.Name)
	assert.Equal(t, model.RoleAdmin, stored.Role)
}

func TestAdminResetPassword(t *testing.T) {
	app, ann, _ := adminApp(t)

	res := app.post(RouteAdmin+"/users/"+ann.ID+RouteSuffixPassword, url.Values{"new_password": {" "}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Body, "Reset password for Ann")

	res = app.post(RouteAdmin+"/users/"+ann.ID+RouteSuffixPassword, url.Values{"new_password": {"fresh"}})
	require.Equal(t, http.StatusSeeOther, res.Status, res.Body)

	// Ann signs in with the new password.
	app.post(RouteLogout, nil)
	app.login("ann@example.com", "fresh")
}

func TestAdminViewUserMaterials(t *testing.T) {
	app, ann, _ := adminApp(t)

	res := app.get(redirectAdminUsers + "&view_user=" + ann.ID)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Learning materials by Ann")
	assert.Contains(t, res.Body, "Go Concurrency")
}

func TestAdminActivity(t *testing.T) {
	app, _, _ := adminApp(t)
	events := service.NewEventService(app.db)
	require.NoError(t, events.LogEvent(context.Background(), model.EventLevelWarning, model.EventCategoryAPI,
		"backend slow", "", map[string]any{"latency": "2s"}))

	res := app.get(RouteAdmin + "?tab=" + tabActivity)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "backend slow")
	assert.Contains(t, res.Body, "latency: 2s")
}

func TestAdminActivityPaging(t *testing.T) {
	app, _, _ := adminApp(t)
	events := service.NewEventService(app.db)
	for i := range service.DefaultActivityLimit + 5 {
		require.NoError(t, events.LogEvent(context.Background(), model.EventLevelWarning, model.EventCategoryAPI,
			fmt.Sprintf("warning #%d", i), "", nil))
	}

	first := app.get(RouteAdmin + "?tab=" + tabActivity)
	require.Equal(t, http.StatusOK, first.Status)
	assert.Contains(t, first.Body, `aria-label="Pagination"`)
	assert.Contains(t, first.Body, "page=2&amp;tab=activity")
	assert.NotContains(t, first.Body, "warning #0<")

	second := app.get(RouteAdmin + "?tab=" + tabActivity + "&page=2")
	require.Equal(t, http.StatusOK, second.Status)
	assert.Contains(t, second.Body, "warning #0<")
	assert.Contains(t, second.Body, `rel="prev"`)
}
