// Package metadata derives caller details from an inbound request.
package metadata

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the original caller's address. The frontend and the load
// balancer in front of the API append to X-Forwarded-For, so its first entry
// wins, then X-Real-IP, then the connection's remote address without port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
