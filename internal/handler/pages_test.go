// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/web"
)

func TestTemplatesParse(t *testing.T) {
	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templates})
	require.NoError(t, err)

	for _, name := range []string{
		"home", "detail", "material_form", "login", "signup", "admin_login",
		"admin", "profile", "confirm", "loading",
	} {
		assert.True(t, renderer.Has(name), name)
	}
}

func TestLoadingPage(t *testing.T) {
	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templates})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	LoadingPage(renderer).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/create", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Body.String(), `<meta http-equiv="refresh" content="1">`)
}
