package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/opsdesk/pkg/clientip"
)

func TestResolverIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		trusted    []string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"remote addr", nil, nil, "192.0.2.10:5555", "192.0.2.10"},
		{"remote addr without port", nil, nil, "192.0.2.10", "192.0.2.10"},
		{"ipv6 remote addr", nil, nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"untrusted header ignored", nil, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "192.0.2.10:1", "192.0.2.10"},
		{"first valid forwarded entry", clientip.DefaultHeaders, map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.1"}, "192.0.2.10:1", "203.0.113.7"},
		{"real ip fallback", clientip.DefaultHeaders, map[string]string{"X-Real-IP": " 203.0.113.8 "}, "192.0.2.10:1", "203.0.113.8"},
		{"header order", []string{"X-Real-IP", "X-Forwarded-For"}, map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "203.0.113.8"}, "192.0.2.10:1", "203.0.113.8"},
		{"invalid everywhere", clientip.DefaultHeaders, map[string]string{"X-Forwarded-For": "nope"}, "nope", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.New(tt.trusted...).IP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.NewFromConfig(clientip.Config{TrustedHeaders: []string{"X-Forwarded-For"}}).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = clientip.FromContext(r.Context())
		}),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "203.0.113.9", got)
}
