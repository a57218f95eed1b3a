package fingerprint_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/opsdesk/pkg/clientip"
	"github.com/dmitrymomot/opsdesk/pkg/fingerprint"
)

func request(remote string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remote
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

var firefox = map[string]string{
	"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
	"Accept-Language": "en-US,en;q=0.5",
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	base := fingerprint.Generate(request("192.0.2.1:1000", firefox))
	assert.Regexp(t, "^[a-f0-9]{32}$", base)

	tests := []struct {
		name    string
		req     *http.Request
		sameAsB bool
	}{
		{"same headers", request("192.0.2.1:1000", firefox), true},
		{"different ip", request("198.51.100.7:2000", firefox), true},
		{"different accept", request("192.0.2.1:1000", map[string]string{
			"User-Agent":      firefox["User-Agent"],
			"Accept-Language": firefox["Accept-Language"],
			"Accept":          "application/json",
		}), true},
		{"different user agent", request("192.0.2.1:1000", map[string]string{
			"User-Agent":      "curl/8.5.0",
			"Accept-Language": firefox["Accept-Language"],
		}), false},
		{"different language", request("192.0.2.1:1000", map[string]string{
			"User-Agent":      firefox["User-Agent"],
			"Accept-Language": "de-DE",
		}), false},
		{"no headers", request("192.0.2.1:1000", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := fingerprint.Generate(tt.req)
			if tt.sameAsB {
				assert.Equal(t, base, got)
			} else {
				assert.NotEqual(t, base, got)
			}
		})
	}
}

func TestWithClientIP(t *testing.T) {
	t.Parallel()
	fp := fingerprint.New(fingerprint.WithClientIP(clientip.New()))

	a := fp(request("192.0.2.1:1000", firefox))
	assert.Equal(t, a, fp(request("192.0.2.1:3000", firefox)), "port is ignored")
	assert.NotEqual(t, a, fp(request("198.51.100.7:1000", firefox)))
	assert.NotEqual(t, a, fingerprint.Generate(request("192.0.2.1:1000", firefox)))
}
