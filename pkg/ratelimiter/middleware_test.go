package ratelimiter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/pkg/clientip"
	"github.com/dmitrymomot/opsdesk/pkg/ratelimiter"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()
	b, _ := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})

	mw := ratelimiter.Middleware(b, ratelimiter.ByIP(clientip.New()))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := range 2 {
		rec := send("10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, []string{"1", "0"}[i], rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	}

	rec := send("10.0.0.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "too_many_requests", body.Error.Code)

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, errors.New("boom")
}

func (failingLimiter) AllowN(context.Context, string, int) (*ratelimiter.Result, error) {
	return nil, errors.New("boom")
}

func TestMiddlewareStoreFailure(t *testing.T) {
	t.Parallel()
	h := ratelimiter.Middleware(failingLimiter{}, ratelimiter.ByPath())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestComposite(t *testing.T) {
	t.Parallel()
	static := func(v string) ratelimiter.KeyFunc {
		return func(*http.Request) string { return v }
	}
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	tests := []struct {
		name  string
		funcs []ratelimiter.KeyFunc
		check func(t *testing.T, key string)
	}{
		{"empty", []ratelimiter.KeyFunc{static("")}, func(t *testing.T, key string) { assert.Empty(t, key) }},
		{"single", []ratelimiter.KeyFunc{static("a")}, func(t *testing.T, key string) { assert.Equal(t, "a", key) }},
		{"joined", []ratelimiter.KeyFunc{static("a"), static(""), ratelimiter.ByPath()}, func(t *testing.T, key string) {
			assert.Equal(t, "a:/x", key)
		}},
		{"hashed", []ratelimiter.KeyFunc{static(strings.Repeat("a", 100))}, func(t *testing.T, key string) {
			assert.NotEmpty(t, key)
			assert.LessOrEqual(t, len(key), 13)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, ratelimiter.Composite(tt.funcs...)(req))
		})
	}
}
