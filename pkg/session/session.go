package session

import (
	"time"

	"github.com/dmitrymomot/opsdesk/pkg/rbac"
)

// Identity is the user a session belongs to.
type Identity struct {
	UserID   string
	Username string
	Role     rbac.Role
}

// Session is the payload of the session cookie.
type Session struct {
	UserID    string    `json:"uid"`
	Username  string    `json:"usr"`
	Role      rbac.Role `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	Device    string    `json:"dev,omitempty"`
}

// Identity returns the user the session belongs to.
func (s Session) Identity() Identity {
	return Identity{UserID: s.UserID, Username: s.Username, Role: s.Role}
}

// IsExpired reports whether the session is no longer valid at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
