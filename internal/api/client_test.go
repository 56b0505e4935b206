// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/testutil"
)

func newClient(t *testing.T, b *testutil.FakeBackend) *api.Client {
	t.Helper()
	c, err := api.New(b.URL())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	tests := []string{"", "ftp://example.com", "://bad"}
	for _, raw := range tests {
		if _, err := api.New(raw); err == nil {
			t.Errorf("New(%q) succeeded, want error", raw)
		}
	}
}

func TestLoginCarriesCredential(t *testing.T) {
	b := testutil.NewFakeBackend(t)
	b.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	c := newClient(t, b)
	ctx := context.Background()

	if _, err := c.Me(ctx); !api.IsUnauthorized(err) {
		t.Fatalf("Me before login: err = %v, want unauthorized", err)
	}

	u, err := c.Login(ctx, model.Credentials{Email: "ann@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.Name != "Ann" {
		t.Errorf("Login user = %q, want Ann", u.Name)
	}

	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me after login: %v", err)
	}
	if me.ID != u.ID {
		t.Errorf("Me ID = %q, want %q", me.ID, u.ID)
	}
	if len(c.Cookies()) == 0 {
		t.Error("expected credential cookie in jar")
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := c.Me(ctx); !api.IsUnauthorized(err) {
		t.Errorf("Me after logout: err = %v, want unauthorized", err)
	}
}

func TestLoginFailureMessage(t *testing.T) {
	b := testutil.NewFakeBackend(t)
	c := newClient(t, b)

	_, err := c.Login(context.Background(), model.Credentials{Email: "x@example.com", Password: "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := api.MessageOr(err, "Login failed"); got != "Invalid credentials" {
		t.Errorf("MessageOr = %q, want server message", got)
	}
}

func TestMessageOr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "server message", err: &api.Error{StatusCode: 400, Message: "bad"}, want: "bad"},
		{name: "empty message", err: &api.Error{StatusCode: 500}, want: "fallback"},
		{name: "transport error", err: errors.New("dial tcp: refused"), want: "fallback"},
		{name: "wrapped", err: errors.Join(errors.New("ctx"), &api.Error{StatusCode: 403, Message: "no"}), want: "no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := api.MessageOr(tt.err, "fallback"); got != tt.want {
				t.Errorf("MessageOr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListMaterials(context.Background())
	if api.StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", api.StatusCode(err))
	}
	if got := api.MessageOr(err, "Failed to fetch learning materials"); got != "Failed to fetch learning materials" {
		t.Errorf("MessageOr = %q, want fallback", got)
	}
}

func TestUpdatesWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	u, err := c.UpdateMe(ctx, model.ProfileUpdate{Name: "Ann"})
	if err != nil || u != nil {
		t.Errorf("UpdateMe = %v, %v; want nil, nil", u, err)
	}
	u, err = c.AdminUpdateUser(ctx, "u1", model.UserUpdate{Name: "Ann"})
	if err != nil || u != nil {
		t.Errorf("AdminUpdateUser = %v, %v; want nil, nil", u, err)
	}

	if _, err := c.Me(ctx); api.StatusCode(err) != http.StatusBadGateway {
		t.Errorf("Me without user: StatusCode = %d, want 502", api.StatusCode(err))
	}
}

func TestTimeoutOption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := api.New(srv.URL, api.WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListMaterials(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if api.StatusCode(err) != 0 {
		t.Errorf("transport failure reported status %d", api.StatusCode(err))
	}
}

func TestSetAndClearCookies(t *testing.T) {
	b := testutil.NewFakeBackend(t)
	u := b.AddUser("Ann", "ann@example.com", "secret", model.RoleUser)
	c := newClient(t, b)

	c.SetCookies([]*http.Cookie{{Name: testutil.TokenCookie, Value: b.Token(u.ID, time.Hour)}})
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me with seeded cookie: %v", err)
	}

	c.ClearCookies()
	if len(c.Cookies()) != 0 {
		t.Errorf("Cookies after clear = %d, want 0", len(c.Cookies()))
	}
	if _, err := c.Me(context.Background()); !api.IsUnauthorized(err) {
		t.Errorf("Me after clear: err = %v, want unauthorized", err)
	}
}

func TestResolveImage(t *testing.T) {
	c, err := api.New("https://api.example.com/")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ref  string
		want string
	}{
		{ref: "", want: ""},
		{ref: "https://cdn.example.com/a.png", want: "https://cdn.example.com/a.png"},
		{ref: "http://cdn.example.com/a.png", want: "http://cdn.example.com/a.png"},
		{ref: "/uploads/a.png", want: "https://api.example.com/uploads/a.png"},
		{ref: "uploads/a.png", want: "https://api.example.com/uploads/a.png"},
	}

	for _, tt := range tests {
		if got := c.ResolveImage(tt.ref); got != tt.want {
			t.Errorf("ResolveImage(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestFetchImage(t *testing.T) {
	b := testutil.NewFakeBackend(t)
	ref := b.PutImage("cover.png", testutil.PNG(t, 4, 4))
	c := newClient(t, b)

	img, err := c.FetchImage(context.Background(), ref)
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if !strings.HasPrefix(img.ContentType, "image/png") {
		t.Errorf("ContentType = %q, want image/png", img.ContentType)
	}

	if _, err := c.FetchImage(context.Background(), "/uploads/missing.png"); !api.IsNotFound(err) {
		t.Errorf("missing image: err = %v, want not found", err)
	}
}
