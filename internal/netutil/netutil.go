package netutil

import (
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

const MaxUserAgentLength = 512

// NormalizeIP accepts a bare IP or a host:port pair ("192.0.2.4:1234",
// "[2001:db8::1]:443") and returns the IP without port or zone.
// ok is false when no IP could be extracted; raw is then returned trimmed.
func NormalizeIP(raw string) (ip string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return canonical(ap.Addr())
	}
	for _, candidate := range hostCandidates(raw) {
		if addr, err := netip.ParseAddr(candidate); err == nil {
			return canonical(addr)
		}
	}
	return raw, false
}

// hostCandidates lists the substrings of raw that may hold the IP:
// raw itself, the bracketed part of "[v6]:x" and everything before the last colon.
func hostCandidates(raw string) []string {
	out := []string{raw}
	if strings.HasPrefix(raw, "[") {
		if end := strings.LastIndex(raw, "]"); end > 0 {
			out = append(out, raw[1:end])
		}
	}
	if idx := strings.LastIndex(raw, ":"); idx > 0 {
		out = append(out, raw[:idx])
	}
	return out
}

func canonical(addr netip.Addr) (string, bool) {
	addr = addr.WithZone("")
	if !addr.IsValid() {
		return "", false
	}
	return addr.Unmap().String(), true
}

// ClientIP resolves the caller address for logging. Forwarding headers are
// only honoured when trustProxy is set.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip, ok := NormalizeIP(first); ok {
				return ip
			}
		}
		if ip, ok := NormalizeIP(r.Header.Get("X-Real-IP")); ok {
			return ip
		}
	}
	ip, _ := NormalizeIP(r.RemoteAddr)
	return ip
}

// TruncateUserAgent trims overly long user agents to MaxUserAgentLength runes.
func TruncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	n := 0
	for i := range ua {
		if n == MaxUserAgentLength {
			return ua[:i]
		}
		n++
	}
	return ua
}
