// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strings"
	"testing"
)

// fakeResolver answers from a fixed table.
type fakeResolver map[string][]string

func (f fakeResolver) LookupNetIP(_ context.Context, _, host string) ([]netip.Addr, error) {
	list, ok := f[host]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	out := make([]netip.Addr, 0, len(list))
	for _, s := range list {
		out = append(out, netip.MustParseAddr(s))
	}
	return out, nil
}

func TestIsPublicAddr(t *testing.T) {
	tests := map[string]bool{
		"8.8.8.8":          true,
		"93.184.216.34":    true,
		"2606:4700::1111":  true,
		"10.1.2.3":         false,
		"172.20.0.1":       false,
		"192.168.1.1":      false,
		"127.0.0.1":        false,
		"169.254.169.254":  false,
		"100.64.0.1":       false,
		"0.0.0.0":          false,
		"::1":              false,
		"fd00::1":          false,
		"fe80::1":          false,
		"::ffff:127.0.0.1": false,
		"::ffff:8.8.8.8":   true,
	}
	for s, want := range tests {
		if got := IsPublicAddr(netip.MustParseAddr(s)); got != want {
			t.Errorf("IsPublicAddr(%s) = %v, want %v", s, got, want)
		}
	}
	if IsPublicAddr(netip.Addr{}) {
		t.Error("zero Addr reported as public")
	}
}

func TestCheckRemoteURL(t *testing.T) {
	r := fakeResolver{
		"cdn.example.com":    {"93.184.216.34"},
		"internal.example":   {"10.0.0.5"},
		"mixed.example.com":  {"93.184.216.34", "192.168.0.10"},
		"empty.example.com":  {},
		"avatars.example.io": {"2606:4700::1111"},
	}
	tests := []struct {
		url     string
		wantErr bool
		blocked bool
	}{
		{url: "https://cdn.example.com/a.png"},
		{url: "http://avatars.example.io/me.jpg"},
		{url: "https://8.8.8.8/a.png"},
		{url: "ftp://cdn.example.com/a.png", wantErr: true},
		{url: "javascript:alert(1)", wantErr: true},
		{url: "https:///a.png", wantErr: true},
		{url: "http://localhost/a.png", wantErr: true, blocked: true},
		{url: "http://app.localhost/a.png", wantErr: true, blocked: true},
		{url: "http://127.0.0.1/a.png", wantErr: true, blocked: true},
		{url: "http://[::1]/a.png", wantErr: true, blocked: true},
		{url: "http://internal.example/a.png", wantErr: true, blocked: true},
		{url: "http://mixed.example.com/a.png", wantErr: true, blocked: true},
		{url: "http://empty.example.com/a.png", wantErr: true},
		{url: "http://unknown.example.com/a.png", wantErr: true},
		{url: "https://cdn.example.com/" + strings.Repeat("a", MaxRemoteURLLength), wantErr: true},
	}
	for _, tt := range tests {
		err := CheckRemoteURL(context.Background(), r, tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckRemoteURL(%.60q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if tt.blocked && !errors.Is(err, ErrBlockedAddress) {
			t.Errorf("CheckRemoteURL(%.60q) = %v, want ErrBlockedAddress", tt.url, err)
		}
	}
}

func TestPublicDialContextRefusesPrivate(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	dial := PublicDialContext(&net.Dialer{}, fakeResolver{"sneaky.example.com": {"127.0.0.1"}})

	for _, addr := range []string{ln.Addr().String(), net.JoinHostPort("sneaky.example.com", port)} {
		conn, err := dial(context.Background(), "tcp", addr)
		if conn != nil {
			_ = conn.Close()
		}
		if !errors.Is(err, ErrBlockedAddress) {
			t.Errorf("dial %s error = %v, want ErrBlockedAddress", addr, err)
		}
	}

	if _, err := dial(context.Background(), "tcp", "no-port"); err == nil {
		t.Error("dial without port succeeded")
	}
}
