package security

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPResolver extracts the client address, honouring forwarding
// headers only when the direct peer is a trusted proxy.
type ClientIPResolver struct {
	trustedProxies []netip.Prefix
}

// NewClientIPResolver trusts loopback and private networks.
func NewClientIPResolver() *ClientIPResolver {
	return &ClientIPResolver{
		trustedProxies: []netip.Prefix{
			netip.MustParsePrefix("127.0.0.0/8"),
			netip.MustParsePrefix("::1/128"),
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("172.16.0.0/12"),
			netip.MustParsePrefix("192.168.0.0/16"),
		},
	}
}

// AddTrustedProxy adds a trusted proxy network
func (c *ClientIPResolver) AddTrustedProxy(cidr string) error {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	c.trustedProxies = append(c.trustedProxies, prefix)
	return nil
}

// ClientIP returns the first valid X-Forwarded-For or X-Real-IP address when
// the peer is trusted, otherwise the peer address itself.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	addr, err := netip.ParseAddr(directIP)
	if err != nil {
		return directIP
	}

	if c.isTrustedProxy(addr.Unmap()) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			first = strings.TrimSpace(first)
			if _, err := netip.ParseAddr(first); err == nil {
				return first
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			if _, err := netip.ParseAddr(xri); err == nil {
				return xri
			}
		}
	}

	return directIP
}

func (c *ClientIPResolver) isTrustedProxy(addr netip.Addr) bool {
	for _, prefix := range c.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
