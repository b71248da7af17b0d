package services

import (
	"net"
	"net/http"
	"strings"
)

// FingerprintHeader carries the client-declared device fingerprint. It is a
// soft identity: trusted verbatim, never cryptographically verified.
const FingerprintHeader = "X-Device-Fingerprint"

// ResolveIdentity produces a best-effort stable identifier for the submitting
// device: the fingerprint header if present, else the client IP, else "".
// An empty result is a valid terminal outcome, not an error.
func ResolveIdentity(header http.Header, remoteAddr string) string {
	if fp := strings.TrimSpace(header.Get(FingerprintHeader)); fp != "" {
		return fp
	}
	return clientIP(header, remoteAddr)
}

// clientIP extracts the originating address, preferring the first hop of
// X-Forwarded-For when the server sits behind a proxy.
func clientIP(header http.Header, remoteAddr string) string {
	if xff := header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For may contain multiple IPs; use the first one
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(remoteAddr)
}
