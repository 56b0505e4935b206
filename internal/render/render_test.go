// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/testutil"
	"github.com/olegiv/himlearn/internal/validation"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<nav>{{range .Nav}}[{{.Label}}]{{end}}</nav>` +
				`{{if .Flash}}<p class="{{.FlashType}}">{{.Flash}}</p>{{end}}{{template "content" .}}{{end}}`)},
		"partials/user.html": {Data: []byte(
			`{{define "user"}}{{if .User}}hi {{.User.Name}}{{else}}guest{{end}}{{end}}`)},
		"pages/home.html": {Data: []byte(
			`{{define "content"}}{{template "user" .}} {{.Title}} {{imageURL .Data}}{{end}}`)},
		"pages/form.html": {Data: []byte(
			`{{define "content"}}{{fieldError .Errors "title"}}|{{richtext "**bold**"}}|{{formatDate .Data}}{{end}}`)},
	}
}

func newTestRenderer(t *testing.T, user *model.User) *Renderer {
	t.Helper()
	r, err := New(Config{
		TemplatesFS:    testFS(),
		SessionManager: testutil.TestSessionManager(),
		UserFunc:       func(*http.Request) *model.User { return user },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func sessionRequest(t *testing.T, r *Renderer) *http.Request {
	t.Helper()
	ctx, err := r.sessionManager.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
}

func TestNewParsesPages(t *testing.T) {
	r := newTestRenderer(t, nil)
	if !r.Has("home") || !r.Has("form") {
		t.Fatalf("templates = %v, want home and form", r.templates)
	}
	if r.Has("user") {
		t.Error("partials must not be registered as pages")
	}
}

func TestNewWithoutPages(t *testing.T) {
	_, err := New(Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
	}})
	if err == nil {
		t.Error("expected error when no pages exist")
	}
}

func TestRenderAnonymous(t *testing.T) {
	r := newTestRenderer(t, nil)
	rr := httptest.NewRecorder()

	if err := r.Render(rr, sessionRequest(t, r), "home", TemplateData{Title: "Home", Data: ""}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rr.Body.String()
	want := "<nav>[Learning Materials]</nav>guest Home " + PlaceholderPath
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderAdminNavigationAndFlash(t *testing.T) {
	admin := &model.User{ID: "u1", Name: "Root", Role: model.RoleAdmin}
	r := newTestRenderer(t, admin)
	req := sessionRequest(t, r)
	r.SetFlash(req, "Saved", FlashSuccess)

	rr := httptest.NewRecorder()
	if err := r.Render(rr, req, "home", TemplateData{Title: "Home", Data: "/uploads/a.png"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"[Learning Materials][Create Material][Admin Panel]",
		`<p class="success">Saved</p>`,
		"hi Root",
		"/media/uploads/a.png",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}

	rr = httptest.NewRecorder()
	if err := r.Render(rr, req, "home", TemplateData{Title: "Home", Data: ""}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(rr.Body.String(), "Saved") {
		t.Error("flash should be shown once")
	}
}

func TestRenderStatusAndFuncs(t *testing.T) {
	r := newTestRenderer(t, nil)
	rr := httptest.NewRecorder()
	data := TemplateData{
		Errors: validation.Errors{"title": "Title is required"},
		Data:   time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}

	if err := r.RenderStatus(rr, sessionRequest(t, r), http.StatusUnprocessableEntity, "form", data); err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Title is required|", "<strong>bold</strong>", "|Mar 9, 2025"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)
	if err := r.Render(httptest.NewRecorder(), sessionRequest(t, r), "missing", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"", PlaceholderPath},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"http://cdn.example.com/a.png", "http://cdn.example.com/a.png"},
		{"/uploads/a.png", "/media/uploads/a.png"},
		{"uploads/a.png", "/media/uploads/a.png"},
	}
	for _, tt := range tests {
		if got := ImageURL(tt.ref); got != tt.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
