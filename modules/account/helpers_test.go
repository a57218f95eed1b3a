package account_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/handler"
	accountmod "github.com/dmitrymomot/opsdesk/modules/account"
	"github.com/dmitrymomot/opsdesk/pkg/cookie"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
)

const cookieSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	accounts *MockAccounts
	sessions *session.Manager
	router   http.Handler
}

func newHarness(t *testing.T, opts ...accountmod.Option) *harness {
	t.Helper()
	cookies, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)
	sessions := session.New(cookies, session.WithTTL(time.Hour))

	accounts := &MockAccounts{}
	authz := rbac.Default()
	router := chi.NewRouter()
	accountmod.Mount(router, accountmod.RouterOptions{
		Auth:      accountmod.NewAuthService(accounts, sessions, opts...),
		TwoFactor: accountmod.NewTwoFactorService(accounts, opts...),
		Users:     accountmod.NewUsersService(accounts, authz, opts...),
	})

	return &harness{
		accounts: accounts,
		sessions: sessions,
		router:   sessions.Middleware(nil)(router),
	}
}

// cookiesFor returns the session cookies of a signed-in user.
func (h *harness) cookiesFor(t *testing.T, id session.Identity) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := h.sessions.Issue(rec, httptest.NewRequest(http.MethodGet, "/", nil), id)
	require.NoError(t, err)
	return rec.Result().Cookies()
}

func (h *harness) do(t *testing.T, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "192.0.2.10:5555"
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage      `json:"data"`
	Meta  map[string]any       `json:"meta"`
	Error *handler.ErrorDetail `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &v), rec.Body.String())
	return v
}

var (
	alice = session.Identity{UserID: "65f000000000000000000001", Username: "alice", Role: rbac.RoleUser}
	admin = session.Identity{UserID: "65f000000000000000000002", Username: "admin", Role: rbac.RoleAdmin}
	root  = session.Identity{UserID: "65f000000000000000000009", Username: "root", Role: rbac.RoleSuperRoot}
)
