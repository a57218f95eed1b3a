package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/dmitrymomot/opsdesk/pkg/clientip"
)

// Func computes the fingerprint of a request.
type Func func(r *http.Request) string

// Option configures New.
type Option func(*generator)

type generator struct {
	ip *clientip.Resolver
}

// WithClientIP mixes the client IP resolved by res into the fingerprint.
// Sessions then break when the client changes networks.
func WithClientIP(res *clientip.Resolver) Option {
	return func(g *generator) {
		g.ip = res
	}
}

// New returns a fingerprint function.
func New(opts ...Option) Func {
	g := &generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g.generate
}

// Generate fingerprints r from its headers only.
func Generate(r *http.Request) string {
	return New()(r)
}

func (g *generator) generate(r *http.Request) string {
	parts := []string{
		"ua=" + r.UserAgent(),
		"lang=" + r.Header.Get("Accept-Language"),
	}
	if g.ip != nil {
		parts = append(parts, "ip="+g.ip.IP(r))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}
