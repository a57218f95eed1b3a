package session

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/opsdesk/pkg/cookie"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
)

// Manager issues and reads session cookies.
type Manager struct {
	cookies    *cookie.Manager
	cookieName string
	ttl        time.Duration
	now        func() time.Time
	device     func(*http.Request) string
	log        *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithTTL sets how long an issued session stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithDeviceBinding ties each session to the fingerprint of the request that
// created it. A cookie presented with a different fingerprint is rejected.
func WithDeviceBinding(fingerprint func(*http.Request) string) Option {
	return func(m *Manager) {
		m.device = fingerprint
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a Manager. It panics without a cookie manager.
func New(cookies *cookie.Manager, opts ...Option) *Manager {
	if cookies == nil {
		panic("session: cookie manager is required")
	}

	m := &Manager{
		cookies:    cookies,
		cookieName: "opsdesk_session",
		ttl:        12 * time.Hour,
		now:        time.Now,
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromConfig creates a Manager from cfg. Extra opts are applied last.
func NewFromConfig(cookies *cookie.Manager, cfg Config, opts ...Option) *Manager {
	return New(cookies, append([]Option{WithCookieName(cfg.CookieName), WithTTL(cfg.TTL)}, opts...)...)
}

// Issue writes a new session cookie for id. r is the request that signed the
// user in; it is only read when device binding is enabled.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request, id Identity) (Session, error) {
	if id.UserID == "" {
		return Session{}, ErrInvalidSession
	}
	if m.device != nil && r == nil {
		return Session{}, ErrDeviceMismatch
	}

	now := m.now().UTC()
	s := Session{
		UserID:    id.UserID,
		Username:  id.Username,
		Role:      id.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if m.device != nil {
		s.Device = m.device(r)
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidSession, err)
	}

	m.cookies.SetSigned(w, m.cookieName, string(payload), cookie.WithMaxAge(int(m.ttl.Seconds())))
	return s, nil
}

// Load reads and verifies the session cookie of r.
func (m *Manager) Load(r *http.Request) (Session, error) {
	raw, err := m.cookies.GetSigned(r, m.cookieName)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, errors.Join(ErrInvalidSession, err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, errors.Join(ErrInvalidSession, err)
	}
	if s.UserID == "" || s.ExpiresAt.IsZero() {
		return Session{}, ErrInvalidSession
	}
	if _, err := rbac.ParseRole(string(s.Role)); err != nil {
		return Session{}, errors.Join(ErrInvalidSession, err)
	}
	if s.IsExpired(m.now()) {
		return Session{}, ErrSessionExpired
	}
	if m.device != nil && subtle.ConstantTimeCompare([]byte(s.Device), []byte(m.device(r))) != 1 {
		return Session{}, errors.Join(ErrInvalidSession, ErrDeviceMismatch)
	}

	return s, nil
}

// Clear removes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	m.cookies.Delete(w, m.cookieName)
}
