// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/olegiv/himlearn/internal/model"
)

// TokenCookie is the credential cookie issued by FakeBackend.
const TokenCookie = "token"

// Request is a request recorded by FakeBackend.
type Request struct {
	Method      string
	Path        string
	ContentType string
}

type fakeUser struct {
	model.User
	Password string
}

type failure struct {
	status  int
	message string
}

// FakeBackend is an in-memory implementation of the learning materials API.
type FakeBackend struct {
	Server *httptest.Server

	// TokenTTL is the lifetime of issued credentials.
	TokenTTL time.Duration

	mu           sync.Mutex
	secret       []byte
	nextID       int
	users        []*fakeUser
	materials    []*model.Material
	commentOwner map[string]string
	images       map[string][]byte
	failures     map[string]failure
	requests     []Request
}

// NewFakeBackend starts a fake API server that is closed when the test ends.
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		TokenTTL:     time.Hour,
		secret:       []byte("fake-backend-signing-key-0123456789"),
		commentOwner: make(map[string]string),
		images:       make(map[string][]byte),
		failures:     make(map[string]failure),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake API.
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// AddUser registers an account directly.
func (b *FakeBackend) AddUser(name, email, password, role string) model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := &fakeUser{
		User:     model.User{ID: b.newID("u"), Name: name, Email: email, Role: role},
		Password: password,
	}
	b.users = append(b.users, u)
	return u.User
}

// AddMaterial stores a material authored by authorID.
func (b *FakeBackend) AddMaterial(authorID, title, description string) model.Material {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := &model.Material{
		ID:          b.newID("m"),
		Title:       title,
		Description: description,
		Author:      model.OwnerRef{ID: authorID},
		CreatedAt:   time.Now().UTC(),
		Likes:       []string{},
		Comments:    []model.Comment{},
	}
	if u := b.userByID(authorID); u != nil {
		m.AuthorName = u.Name
		m.Author.Name = u.Name
	}
	b.materials = append(b.materials, m)
	return *m
}

// Material returns a copy of a stored material.
func (b *FakeBackend) Material(id string) (model.Material, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.materialByID(id); m != nil {
		return *m, true
	}
	return model.Material{}, false
}

// MaterialCount returns how many materials are stored.
func (b *FakeBackend) MaterialCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.materials)
}

// User returns a copy of a stored account.
func (b *FakeBackend) User(id string) (model.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u := b.userByID(id); u != nil {
		return u.User, true
	}
	return model.User{}, false
}

// Fail makes every request matching method and path fail with status and message.
func (b *FakeBackend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// ClearFailures removes every failure set with Fail.
func (b *FakeBackend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

// Requests returns the requests received so far.
func (b *FakeBackend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// CountRequests counts received requests with the given method and path.
func (b *FakeBackend) CountRequests(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request with the given method and path.
func (b *FakeBackend) LastRequest(method, path string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// Token issues a credential for userID that expires after ttl.
func (b *FakeBackend) Token(userID string, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(fmt.Sprintf("signing token: %v", err))
	}
	return signed
}

func (b *FakeBackend) newID(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s%d", prefix, b.nextID)
}

func (b *FakeBackend) userByID(id string) *fakeUser {
	for _, u := range b.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (b *FakeBackend) userByEmail(email string) *fakeUser {
	for _, u := range b.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (b *FakeBackend) materialByID(id string) *model.Material {
	for _, m := range b.materials {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (b *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", b.handleLogin(false))
		r.Post("/admin-login", b.handleLogin(true))
		r.Post("/signup", b.handleSignup)
		r.Post("/logout", b.handleLogout)
		r.Get("/me", b.authed(b.handleMe))
		r.Put("/me", b.authed(b.handleUpdateMe))
		r.Put("/me/password", b.authed(b.handleChangePassword))
	})

	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", b.handleListMaterials)
		r.Post("/", b.authed(b.handleCreateMaterial))
		r.Get("/{id}", b.handleGetMaterial)
		r.Put("/{id}", b.authed(b.handleUpdateMaterial))
		r.Delete("/{id}", b.authed(b.handleDeleteMaterial))
		r.Post("/{id}/like", b.authed(b.handleLike))
		r.Post("/{id}/comment", b.authed(b.handleComment))
		r.Delete("/{id}/comment/{commentID}", b.authed(b.handleDeleteComment))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/blogs", b.admin(b.writeMaterials))
		r.Delete("/blogs/{id}", b.admin(b.handleAdminDeleteMaterial))
		r.Get("/users", b.admin(b.handleAdminUsers))
		r.Get("/stats", b.admin(b.handleAdminStats))
		r.Put("/users/{id}", b.admin(b.handleAdminUpdateUser))
		r.Delete("/users/{id}", b.admin(b.handleAdminDeleteUser))
		r.Put("/users/{id}/password", b.admin(b.handleAdminResetPassword))
		r.Get("/users/{id}/blogs", b.admin(b.handleAdminUserMaterials))
	})

	r.Get("/uploads/{name}", b.handleImage)

	return r
}

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")
		if path == "" {
			path = "/"
		}

		b.mu.Lock()
		b.requests = append(b.requests, Request{Method: r.Method, Path: path, ContentType: r.Header.Get("Content-Type")})
		f, failing := b.failures[r.Method+" "+path]
		b.mu.Unlock()

		if failing {
			writeMessage(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, u *fakeUser)

// currentUser resolves the credential cookie. Callers must hold b.mu.
func (b *FakeBackend) currentUser(r *http.Request) *fakeUser {
	c, err := r.Cookie(TokenCookie)
	if err != nil {
		return nil
	}
	tok, err := jwt.ParseWithClaims(c.Value, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return nil
	}
	return b.userByID(sub)
}

func (b *FakeBackend) authed(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		u := b.currentUser(r)
		if u == nil {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		h(w, r, u)
	}
}

func (b *FakeBackend) admin(h http.HandlerFunc) http.HandlerFunc {
	return b.authed(func(w http.ResponseWriter, r *http.Request, u *fakeUser) {
		if u.Role != model.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Access denied. Admins only.")
			return
		}
		h(w, r)
	})
}

func (b *FakeBackend) setToken(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    b.Token(userID, b.TokenTTL),
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(b.TokenTTL),
	})
}

func (b *FakeBackend) handleLogin(adminOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.Credentials
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request")
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		u := b.userByEmail(in.Email)
		if u == nil || u.Password != in.Password {
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		if adminOnly && u.Role != model.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Access denied. Admins only.")
			return
		}
		b.setToken(w, u.ID)
		writeJSON(w, http.StatusOK, map[string]any{"user": u.User})
	}
}

func (b *FakeBackend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in model.Registration
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if in.Name == "" || in.Email == "" || in.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if b.userByEmail(in.Email) != nil {
		writeMessage(w, http.StatusBadRequest, "User already exists")
		return
	}
	u := &fakeUser{
		User:     model.User{ID: b.newID("u"), Name: in.Name, Email: in.Email, Role: model.RoleUser},
		Password: in.Password,
	}
	b.users = append(b.users, u)
	b.setToken(w, u.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"user": u.User})
}

func (b *FakeBackend) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "", Path: "/", MaxAge: -1})
	writeMessage(w, http.StatusOK, "Logged out")
}

func (b *FakeBackend) handleMe(w http.ResponseWriter, _ *http.Request, u *fakeUser) {
	writeJSON(w, http.StatusOK, map[string]any{"user": u.User})
}

func (b *FakeBackend) handleUpdateMe(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	var in model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if other := b.userByEmail(in.Email); other != nil && other.ID != u.ID {
		writeMessage(w, http.StatusBadRequest, "Email already in use")
		return
	}
	u.Name, u.Email, u.Bio, u.Avatar = in.Name, in.Email, in.Bio, in.Avatar
	writeJSON(w, http.StatusOK, map[string]any{"user": u.User})
}

func (b *FakeBackend) handleChangePassword(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	var in model.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if in.CurrentPassword != u.Password {
		writeMessage(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	u.Password = in.NewPassword
	writeMessage(w, http.StatusOK, "Password updated")
}

func (b *FakeBackend) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeMaterials(w, r)
}

// writeMaterials lists newest first. Callers must hold b.mu.
func (b *FakeBackend) writeMaterials(w http.ResponseWriter, _ *http.Request) {
	out := make([]model.Material, 0, len(b.materials))
	for i := len(b.materials) - 1; i >= 0; i-- {
		out = append(out, *b.materials[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.materialByID(chi.URLParam(r, "id"))
	if m == nil {
		writeMessage(w, http.StatusNotFound, "Blog not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// readMaterialInput accepts multipart or JSON bodies.
func (b *FakeBackend) readMaterialInput(r *http.Request) (title, description, image string, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err = r.ParseMultipartForm(10 << 20); err != nil {
			return "", "", "", err
		}
		title, description = r.FormValue("title"), r.FormValue("description")
		file, header, ferr := r.FormFile("image")
		if ferr == nil {
			defer func() { _ = file.Close() }()
			data, rerr := io.ReadAll(file)
			if rerr != nil {
				return "", "", "", rerr
			}
			name := b.newID("img") + "-" + header.Filename
			b.images[name] = data
			image = "/uploads/" + name
		}
		return title, description, image, nil
	}

	var in struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err = json.NewDecoder(r.Body).Decode(&in); err != nil {
		return "", "", "", err
	}
	return in.Title, in.Description, "", nil
}

func (b *FakeBackend) handleCreateMaterial(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	title, description, image, err := b.readMaterialInput(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if title == "" || description == "" {
		writeMessage(w, http.StatusBadRequest, "Title and description are required")
		return
	}
	m := &model.Material{
		ID:          b.newID("m"),
		Title:       title,
		Description: description,
		Image:       image,
		AuthorName:  u.Name,
		Author:      model.OwnerRef{ID: u.ID, Name: u.Name},
		CreatedAt:   time.Now().UTC(),
		Likes:       []string{},
		Comments:    []model.Comment{},
	}
	b.materials = append(b.materials, m)
	writeJSON(w, http.StatusCreated, m)
}

func (b *FakeBackend) ownedMaterial(w http.ResponseWriter, r *http.Request, u *fakeUser) *model.Material {
	m := b.materialByID(chi.URLParam(r, "id"))
	if m == nil {
		writeMessage(w, http.StatusNotFound, "Blog not found")
		return nil
	}
	if m.Author.ID != u.ID && u.Role != model.RoleAdmin {
		writeMessage(w, http.StatusForbidden, "Not authorized")
		return nil
	}
	return m
}

func (b *FakeBackend) handleUpdateMaterial(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	m := b.ownedMaterial(w, r, u)
	if m == nil {
		return
	}
	title, description, image, err := b.readMaterialInput(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	m.Title, m.Description = title, description
	if image != "" {
		m.Image = image
	}
	writeJSON(w, http.StatusOK, m)
}

func (b *FakeBackend) handleDeleteMaterial(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	m := b.ownedMaterial(w, r, u)
	if m == nil {
		return
	}
	b.removeMaterial(m.ID)
	writeMessage(w, http.StatusOK, "Blog deleted")
}

func (b *FakeBackend) removeMaterial(id string) {
	b.materials = slices.DeleteFunc(b.materials, func(m *model.Material) bool { return m.ID == id })
}

func (b *FakeBackend) handleLike(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	m := b.materialByID(chi.URLParam(r, "id"))
	if m == nil {
		writeMessage(w, http.StatusNotFound, "Blog not found")
		return
	}
	if i := slices.Index(m.Likes, u.ID); i >= 0 {
		m.Likes = slices.Delete(m.Likes, i, i+1)
	} else {
		m.Likes = append(m.Likes, u.ID)
	}
	m.LikesCount = len(m.Likes)
	writeJSON(w, http.StatusOK, model.LikeState{Likes: m.Likes, LikesCount: m.LikesCount})
}

func (b *FakeBackend) handleComment(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	m := b.materialByID(chi.URLParam(r, "id"))
	if m == nil {
		writeMessage(w, http.StatusNotFound, "Blog not found")
		return
	}
	var in struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Content) == "" {
		writeMessage(w, http.StatusBadRequest, "Comment content is required")
		return
	}
	c := model.Comment{ID: b.newID("c"), UserName: u.Name, Content: in.Content, CreatedAt: time.Now().UTC()}
	m.Comments = append(m.Comments, c)
	m.CommentsCount = len(m.Comments)
	b.commentOwner[c.ID] = u.ID
	writeJSON(w, http.StatusCreated, m.Comments)
}

func (b *FakeBackend) handleDeleteComment(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	m := b.materialByID(chi.URLParam(r, "id"))
	if m == nil {
		writeMessage(w, http.StatusNotFound, "Blog not found")
		return
	}
	cid := chi.URLParam(r, "commentID")
	owner, ok := b.commentOwner[cid]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Comment not found")
		return
	}
	if owner != u.ID && m.Author.ID != u.ID && u.Role != model.RoleAdmin {
		writeMessage(w, http.StatusForbidden, "Not authorized")
		return
	}
	m.RemoveComment(cid)
	delete(b.commentOwner, cid)
	writeMessage(w, http.StatusOK, "Comment deleted")
}

func (b *FakeBackend) handleAdminDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if b.materialByID(id) == nil {
		writeMessage(w, http.StatusNotFound, "Blog not found")
		return
	}
	b.removeMaterial(id)
	writeMessage(w, http.StatusOK, "Blog deleted")
}

// adminUser is the admin listing shape, keyed by "_id".
type adminUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toAdminUser(u *fakeUser) adminUser {
	return adminUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (b *FakeBackend) handleAdminUsers(w http.ResponseWriter, _ *http.Request) {
	out := make([]adminUser, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, toAdminUser(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) handleAdminStats(w http.ResponseWriter, _ *http.Request) {
	comments := 0
	for _, m := range b.materials {
		comments += len(m.Comments)
	}
	writeJSON(w, http.StatusOK, model.Stats{
		TotalUsers:    len(b.users),
		TotalBlogs:    len(b.materials),
		TotalComments: comments,
	})
}

func (b *FakeBackend) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	u := b.userByID(chi.URLParam(r, "id"))
	if u == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	var in model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	u.Name, u.Email, u.Role = in.Name, in.Email, in.Role
	writeJSON(w, http.StatusOK, map[string]any{"user": toAdminUser(u)})
}

func (b *FakeBackend) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if b.userByID(id) == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	b.users = slices.DeleteFunc(b.users, func(u *fakeUser) bool { return u.ID == id })
	b.materials = slices.DeleteFunc(b.materials, func(m *model.Material) bool { return m.Author.ID == id })
	writeMessage(w, http.StatusOK, "User deleted")
}

func (b *FakeBackend) handleAdminResetPassword(w http.ResponseWriter, r *http.Request) {
	u := b.userByID(chi.URLParam(r, "id"))
	if u == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	var in struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "New password is required")
		return
	}
	u.Password = in.NewPassword
	writeMessage(w, http.StatusOK, "Password reset")
}

func (b *FakeBackend) handleAdminUserMaterials(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out := []model.Material{}
	for _, m := range b.materials {
		if m.Author.ID == id {
			out = append(out, *m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) handleImage(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	data, ok := b.images[chi.URLParam(r, "name")]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

// PutImage stores an image served at /uploads/{name}.
func (b *FakeBackend) PutImage(name string, data []byte) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.images[name] = data
	return "/uploads/" + name
}

// PNG returns a small solid PNG image.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 60, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
