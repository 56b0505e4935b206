// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/model"
)

// Default messages for failed auth actions.
const (
	MsgLoginFailed         = "Login failed"
	MsgAdminLoginFailed    = "Admin login failed"
	MsgSignupFailed        = "Signup failed"
	MsgUpdateProfileFailed = "Failed to update profile"
)

// Authenticator is the subset of the API the store drives.
type Authenticator interface {
	Me(ctx context.Context) (*model.User, error)
	Login(ctx context.Context, creds model.Credentials) (*model.User, error)
	AdminLogin(ctx context.Context, creds model.Credentials) (*model.User, error)
	Signup(ctx context.Context, reg model.Registration) (*model.User, error)
	Logout(ctx context.Context) error
	// ClearCookies drops the backend credential held for this visitor.
	ClearCookies()
	UpdateMe(ctx context.Context, in model.ProfileUpdate) (*model.User, error)
}

// State is a point-in-time copy of the store.
type State struct {
	User    *model.User
	Loading bool
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// IsAdmin reports whether the signed-in user is an admin.
func (s State) IsAdmin() bool {
	return s.User.IsAdmin()
}

// Result is the outcome of an auth action.
type Result struct {
	Success bool
	Message string
}

// Store is the single writer of one visitor's authentication state.
// Only its own methods mutate it.
type Store struct {
	auth Authenticator

	mu         sync.RWMutex
	user       *model.User
	loading    bool
	generation uint64

	resolveOnce sync.Once
	resolved    chan struct{}
}

// NewStore returns a store in the loading state.
func NewStore(auth Authenticator) *Store {
	return &Store{
		auth:     auth,
		loading:  true,
		resolved: make(chan struct{}),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{User: s.user.Clone(), Loading: s.loading}
}

// Resolve asks the backend who is signed in. It runs at most once; later
// calls return immediately. Any failure resolves to anonymous. A result that
// arrives after a newer auth action is discarded.
func (s *Store) Resolve(ctx context.Context) {
	s.resolveOnce.Do(func() {
		s.mu.RLock()
		gen := s.generation
		s.mu.RUnlock()

		u, err := s.auth.Me(ctx)
		if err != nil && !api.IsUnauthorized(err) {
			slog.Warn("session resolve failed", "category", model.EventCategoryAuth, "error", err)
		}

		s.mu.Lock()
		if s.generation == gen {
			if err != nil {
				s.user = nil
			} else {
				s.user = u.Clone()
			}
		}
		s.loading = false
		s.mu.Unlock()

		close(s.resolved)
	})
}

// Resolved is closed once the initial resolve has finished.
func (s *Store) Resolved() <-chan struct{} {
	return s.resolved
}

// setUser replaces the user and invalidates any in-flight resolve.
func (s *Store) setUser(u *model.User) {
	s.mu.Lock()
	s.user = u.Clone()
	s.generation++
	s.mu.Unlock()
}

func (s *Store) authenticate(u *model.User, err error, fallback string) Result {
	if err != nil {
		return Result{Message: api.MessageOr(err, fallback)}
	}
	s.setUser(u)
	return Result{Success: true}
}

// Login signs in a regular user.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	u, err := s.auth.Login(ctx, model.Credentials{Email: email, Password: password})
	return s.authenticate(u, err, MsgLoginFailed)
}

// AdminLogin signs in through the admin-only endpoint.
func (s *Store) AdminLogin(ctx context.Context, email, password string) Result {
	u, err := s.auth.AdminLogin(ctx, model.Credentials{Email: email, Password: password})
	return s.authenticate(u, err, MsgAdminLoginFailed)
}

// Signup registers a new account and signs it in.
func (s *Store) Signup(ctx context.Context, name, email, password string) Result {
	u, err := s.auth.Signup(ctx, model.Registration{Name: name, Email: email, Password: password})
	return s.authenticate(u, err, MsgSignupFailed)
}

// Logout asks the backend to end the session, then clears the local user
// and the backend credential whatever the backend answered. A credential
// left behind would sign the visitor back in on the next resolve.
func (s *Store) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		slog.Warn("logout request failed", "category", model.EventCategoryAuth, "error", err)
	}
	s.auth.ClearCookies()
	s.setUser(nil)
}

// UpdateProfile saves the signed-in user's profile and merges the stored
// result into the session user.
func (s *Store) UpdateProfile(ctx context.Context, in model.ProfileUpdate) Result {
	u, err := s.auth.UpdateMe(ctx, in)
	if err != nil {
		return Result{Message: api.MessageOr(err, MsgUpdateProfileFailed)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A nil user means the backend saved without echoing; keep ours.
	if s.user != nil && u != nil {
		merged := u.Clone()
		if merged.ID == "" {
			merged.ID = s.user.ID
		}
		if merged.Role == "" {
			merged.Role = s.user.Role
		}
		s.user = merged
		s.generation++
	}
	return Result{Success: true}
}
