// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olegiv/himlearn/internal/api"
)

// Visitor is one browser session's API client and session store.
type Visitor struct {
	ID     string
	Client *api.Client
	Store  *Store

	lastSeen  atomic.Int64 // unix nanoseconds
	expiresAt atomic.Int64 // unix seconds of the earliest credential expiry, 0 if unknown
}

// LastSeen returns when the visitor was last handed out.
func (v *Visitor) LastSeen() time.Time {
	return time.Unix(0, v.lastSeen.Load())
}

func (v *Visitor) touch(now time.Time) {
	v.lastSeen.Store(now.UnixNano())
}

// RefreshCredential re-reads the credential expiry from the client's cookies.
// Call it after any request that may have replaced the credential.
func (v *Visitor) RefreshCredential() {
	exp, ok := CredentialExpiry(v.Client.Cookies())
	if !ok {
		v.expiresAt.Store(0)
		return
	}
	v.expiresAt.Store(exp.Unix())
}

// CredentialExpired reports whether the backend credential has an expiry in the past.
func (v *Visitor) CredentialExpired(now time.Time) bool {
	exp := v.expiresAt.Load()
	return exp != 0 && now.Unix() >= exp
}

// CredentialExpiry returns the earliest "exp" claim among cookies that hold a JWT.
// Signatures are not checked; the backend remains the authority.
func CredentialExpiry(cookies []*http.Cookie) (time.Time, bool) {
	parser := jwt.NewParser()
	var earliest time.Time
	found := false
	for _, c := range cookies {
		claims := jwt.RegisteredClaims{}
		if _, _, err := parser.ParseUnverified(c.Value, &claims); err != nil {
			continue
		}
		if claims.ExpiresAt == nil {
			continue
		}
		if !found || claims.ExpiresAt.Before(earliest) {
			earliest = claims.ExpiresAt.Time
			found = true
		}
	}
	return earliest, found
}

// ClientFactory creates a fresh API client for a new visitor.
type ClientFactory func() (*api.Client, error)

// Registry tracks live visitors by id.
type Registry struct {
	newClient ClientFactory
	idle      time.Duration
	now       func() time.Time

	mu       sync.Mutex
	visitors map[string]*Visitor
}

// NewRegistry creates a registry. Visitors unseen for longer than idle are swept.
func NewRegistry(newClient ClientFactory, idle time.Duration) *Registry {
	return &Registry{
		newClient: newClient,
		idle:      idle,
		now:       time.Now,
		visitors:  make(map[string]*Visitor),
	}
}

// Get returns the visitor for id, creating it when unknown. A new visitor's
// jar is seeded from seed. The boolean reports whether the visitor was created
// and still needs its initial resolve.
func (r *Registry) Get(id string, seed []*http.Cookie) (*Visitor, bool, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.visitors[id]; ok {
		if !v.CredentialExpired(now) {
			v.touch(now)
			return v, false, nil
		}
		slog.Info("visitor credential expired", "visitor", id)
		delete(r.visitors, id)
		seed = nil
	}

	client, err := r.newClient()
	if err != nil {
		return nil, false, fmt.Errorf("creating api client: %w", err)
	}
	v := &Visitor{ID: id, Client: client, Store: NewStore(client)}
	client.SetCookies(seed)
	v.RefreshCredential()
	if v.CredentialExpired(now) {
		client.ClearCookies()
		v.RefreshCredential()
	}
	v.touch(now)
	r.visitors[id] = v
	return v, true, nil
}

// Drop forgets a visitor.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.visitors, id)
}

// Len returns the number of live visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Sweep removes idle visitors and visitors with expired credentials.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, v := range r.visitors {
		if now.Sub(v.LastSeen()) > r.idle || v.CredentialExpired(now) {
			delete(r.visitors, id)
			removed++
		}
	}
	return removed
}

// storedCookie is the persisted form of a backend cookie.
type storedCookie struct {
	Name  string `json:"n"`
	Value string `json:"v"`
}

// EncodeCookies serializes cookies for storage in the browser session.
func EncodeCookies(cookies []*http.Cookie) string {
	if len(cookies) == 0 {
		return ""
	}
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeCookies is the inverse of EncodeCookies. Malformed input yields nil.
func DecodeCookies(s string) []*http.Cookie {
	if s == "" {
		return nil
	}
	var stored []storedCookie
	if err := json.Unmarshal([]byte(s), &stored); err != nil {
		return nil
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies
}
