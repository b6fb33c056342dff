package clientip

import (
	"net"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/header"
)

var forwardingHeaders = []string{"CF-Connecting-IP", "DO-Connecting-IP"}

// Resolve returns the normalised client address. h holds request headers
// forwarded by a trusted proxy; pass nil to use the peer address only.
// An empty string means no valid address was found.
func Resolve(h header.Header, peer string) string {
	for _, name := range forwardingHeaders {
		if ip := parseIP(h.Get(name)); ip != "" {
			return ip
		}
	}
	if list := h.Get("X-Forwarded-For"); list != "" {
		for entry := range strings.SplitSeq(list, ",") {
			if ip := parseIP(entry); ip != "" {
				return ip
			}
		}
	}
	if ip := parseIP(h.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(peer)
	if err != nil {
		return parseIP(peer)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
