package session

import (
	"context"

	"github.com/dmitrymomot/opsdesk/pkg/rbac"
)

type sessionContextKey struct{}

// WithSession stores s in ctx together with its role.
func WithSession(ctx context.Context, s Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey{}, s)
	return rbac.WithRole(ctx, s.Role)
}

// FromContext returns the session stored by Middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(Session)
	return s, ok
}

// UserIDFromContext returns the signed-in user's id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}
