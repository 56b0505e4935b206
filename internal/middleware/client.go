package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

// ClientInfo describes the browser behind a request.
type ClientInfo struct {
	IP         string
	Browser    string
	OS         string
	DeviceType string
}

// Attrs returns the info as slog key/value pairs.
func (c ClientInfo) Attrs() []any {
	return []any{"ip", c.IP, "browser", c.Browser, "os", c.OS, "device", c.DeviceType}
}

// Client parses the request's user agent and client address.
func Client(r *http.Request) ClientInfo {
	ua := useragent.Parse(r.UserAgent())

	info := ClientInfo{
		IP:      getClientIP(r),
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		info.DeviceType = "mobile"
	case ua.Tablet:
		info.DeviceType = "tablet"
	case ua.Bot:
		info.DeviceType = "bot"
	default:
		info.DeviceType = "desktop"
	}
	return info
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Real-IP header (set by reverse proxies)
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	// X-Forwarded-For can contain multiple IPs; take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
