// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"time"
)

// MaxRemoteURLLength is the longest user-supplied URL the server will fetch.
const MaxRemoteURLLength = 2048

// lookupTimeout bounds DNS resolution while checking a URL.
const lookupTimeout = 5 * time.Second

// ErrBlockedAddress is returned for hosts on private or reserved networks.
var ErrBlockedAddress = errors.New("private or reserved address")

// Resolver looks up the addresses of a host. *net.Resolver implements it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"), // CGNAT
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("224.0.0.0/4"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("::/128"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
	netip.MustParsePrefix("ff00::/8"),
}

// IsPublicAddr reports whether a is routable on the public internet.
// IPv4-mapped IPv6 addresses are judged by their IPv4 form.
func IsPublicAddr(a netip.Addr) bool {
	if !a.IsValid() {
		return false
	}
	a = a.Unmap()
	for _, p := range blockedPrefixes {
		if p.Contains(a) {
			return false
		}
	}
	return true
}

// CheckRemoteURL vets a user-supplied URL before the server requests it:
// http(s) only, a real hostname, and every resolved address public.
func CheckRemoteURL(ctx context.Context, r Resolver, rawURL string) error {
	if len(rawURL) > MaxRemoteURLLength {
		return fmt.Errorf("URL longer than %d characters", MaxRemoteURLLength)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return errors.New("URL has no host")
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%s: %w", host, ErrBlockedAddress)
	}

	_, err = publicAddrs(ctx, r, host)
	return err
}

// publicAddrs resolves host, failing if any address is not public.
func publicAddrs(ctx context.Context, r Resolver, host string) ([]netip.Addr, error) {
	if a, err := netip.ParseAddr(host); err == nil {
		if !IsPublicAddr(a) {
			return nil, fmt.Errorf("%s: %w", a, ErrBlockedAddress)
		}
		return []netip.Addr{a}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	addrs, err := r.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%q has no addresses", host)
	}
	for _, a := range addrs {
		if !IsPublicAddr(a) {
			return nil, fmt.Errorf("%q resolves to %s: %w", host, a, ErrBlockedAddress)
		}
	}
	return addrs, nil
}

// PublicDialContext returns a DialContext for http.Transport that resolves
// the host itself and connects only to public addresses. Dialing the checked
// address closes the window for DNS rebinding and redirects to internal hosts.
func PublicDialContext(dialer *net.Dialer, r Resolver) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", addr, err)
		}
		addrs, err := publicAddrs(ctx, r, host)
		if err != nil {
			return nil, err
		}
		for _, a := range addrs {
			conn, dialErr := dialer.DialContext(ctx, network, net.JoinHostPort(a.String(), port))
			if dialErr == nil {
				return conn, nil
			}
			err = dialErr
		}
		return nil, fmt.Errorf("connecting to %q: %w", host, err)
	}
}
