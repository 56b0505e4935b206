// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/testutil"
)

// multipartPost submits fields and an optional image like the material form.
func (a *testApp) multipartPost(path string, fields map[string]string, image []byte) response {
	a.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "cover.png")
		require.NoError(a.t, err)
		_, err = part.Write(image)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, &body)
	require.NoError(a.t, err)
	req.Header.Set(HeaderContentType, mw.FormDataContentType())
	return a.send(req)
}

var pendingField = regexp.MustCompile(`name="pending_image" value="([^"]*)"`)

func TestCreateMaterial(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.login("ann@example.com", "secret")

	form := app.get(RouteCreate)
	require.Equal(t, http.StatusOK, form.Status)
	assert.Contains(t, form.Body, `enctype="multipart/form-data"`)

	res := app.multipartPost(RouteCreate, map[string]string{"title": "Go Testing", "description": "Table driven tests"}, nil)
	require.Equal(t, http.StatusSeeOther, res.Status, res.Body)
	require.Equal(t, 1, app.backend.MaterialCount())
	assert.Regexp(t, `^/blog/.+`, res.Location)

	detail := app.get(res.Location)
	assert.Contains(t, detail.Body, service.MsgMaterialCreated)
	assert.Contains(t, detail.Body, "Go Testing")
}

func TestCreateMaterialValidation(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.login("ann@example.com", "secret")

	res := app.multipartPost(RouteCreate, map[string]string{"title": "  ", "description": "Body kept"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Body, "Title is required")
	assert.Contains(t, res.Body, "Body kept")
	assert.Zero(t, app.backend.MaterialCount())
}

func TestCreateMaterialUnsupportedImage(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.login("ann@example.com", "secret")

	res := app.multipartPost(RouteCreate, map[string]string{"title": "T", "description": "D"}, []byte("plain text, not an image"))
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Body, service.MsgUnsupportedImage)
	assert.Zero(t, app.backend.MaterialCount())
}

func TestCreateMaterialPreviewThenSubmit(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.login("ann@example.com", "secret")

	preview := app.multipartPost(RouteCreate, map[string]string{
		"title": "With image", "description": "Has a cover", formAction: actionPreview,
	}, testutil.PNG(t, 64, 32))
	require.Equal(t, http.StatusOK, preview.Status)
	assert.Contains(t, preview.Body, `src="data:image/`)
	assert.Zero(t, app.backend.MaterialCount(), "preview does not create")

	match := pendingField.FindStringSubmatch(preview.Body)
	require.Len(t, match, 2)
	require.NotEmpty(t, match[1])

	// The staged image is submitted without choosing the file again.
	res := app.multipartPost(RouteCreate, map[string]string{
		"title": "With image", "description": "Has a cover", "pending_image": match[1],
	}, nil)
	require.Equal(t, http.StatusSeeOther, res.Status, res.Body)

	req, ok := app.backend.LastRequest(http.MethodPost, "/api/blogs")
	require.True(t, ok)
	assert.Contains(t, req.ContentType, "multipart/form-data")
}

func TestCreateMaterialExpiredUpload(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.login("ann@example.com", "secret")

	res := app.multipartPost(RouteCreate, map[string]string{
		"title": "T", "description": "D", "pending_image": "unknown-token",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Body, service.MsgUploadExpired)
}

func TestCreateMaterialBackendFailure(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.login("ann@example.com", "secret")
	app.backend.Fail(http.MethodPost, "/api/blogs", http.StatusInternalServerError, "database down")

	res := app.multipartPost(RouteCreate, map[string]string{"title": "T", "description": "D"}, nil)
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Contains(t, res.Body, `value="T"`)
}

func TestEditMaterial(t *testing.T) {
	app := newTestApp(t)
	ann := app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	m := app.backend.AddMaterial(ann.ID, "Old title", "Old body")
	app.login("ann@example.com", "secret")

	form := app.get("/edit/" + m.ID)
	require.Equal(t, http.StatusOK, form.Status)
	assert.Contains(t, form.Body, `value="Old title"`)
	assert.Contains(t, form.Body, "Old body")

	res := app.multipartPost("/edit/"+m.ID, map[string]string{"title": "New title", "description": "New body"}, nil)
	require.Equal(t, http.StatusSeeOther, res.Status, res.Body)
	assert.Equal(t, blogURL(m.ID), res.Location)

	stored, _ := app.backend.Material(m.ID)
	assert.Equal(t, "New title", stored.Title)
	assert.Equal(t, "New body", stored.Description)
}

func TestEditMaterialNotFound(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.login("ann@example.com", "secret")

	res := app.get("/edit/missing")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, service.MsgLoadForEditFailed)
	assert.NotContains(t, res.Body, `name="title"`)
}

func TestEditMaterialForbidden(t *testing.T) {
	app := newTestApp(t)
	ann := app.backend.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	app.backend.AddUser("Bob", "bob@example.com", "pw", model.RoleUser)
	m := app.backend.AddMaterial(ann.ID, "Ann's", "Body")
	app.login("bob@example.com", "pw")

	res := app.multipartPost("/edit/"+m.ID, map[string]string{"title": "Hijack", "description": "Body"}, nil)
	assert.Equal(t, http.StatusForbidden, res.Status)
	stored, _ := app.backend.Material(m.ID)
	assert.Equal(t, "Ann's", stored.Title)
}
