// Package clientip resolves the address of the client behind an HTTP request.
//
// Forwarding headers are only honoured when listed in the Resolver's trusted
// set, so a service exposed without a proxy can run with none and ignore
// spoofed X-Forwarded-For values. The resolved address keys the login rate
// limiter.
package clientip

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders are trusted when no configuration is given.
var DefaultHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// Config lists the forwarding headers set by a trusted reverse proxy.
// An empty list makes RemoteAddr the only source.
type Config struct {
	TrustedHeaders []string `env:"CLIENTIP_TRUSTED_HEADERS" envSeparator:"," envDefault:"X-Forwarded-For,X-Real-IP"`
}

// Resolver extracts the client address.
type Resolver struct {
	headers []string
}

// New creates a Resolver trusting headers, checked in order.
func New(headers ...string) *Resolver {
	return &Resolver{headers: headers}
}

func NewFromConfig(cfg Config) *Resolver {
	return New(cfg.TrustedHeaders...)
}

// IP returns the normalised client address or "" when none is valid.
// For X-Forwarded-For the first valid entry is used.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// Middleware stores the resolved address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the address stored by Middleware.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}
