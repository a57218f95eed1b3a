package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
)

// UserResolver loads the current state of a session's user.
// It returns ErrUserNotFound when the user was deleted.
type UserResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// ResolverFunc adapts a function to UserResolver.
type ResolverFunc func(ctx context.Context, userID string) (Identity, error)

func (f ResolverFunc) ResolveIdentity(ctx context.Context, userID string) (Identity, error) {
	return f(ctx, userID)
}

// Middleware loads the session of each request and stores it in the request
// context. With a resolver the user's username and role are refreshed from
// storage. Requests without a usable session continue anonymously; broken,
// expired or orphaned cookies are cleared. Resolver failures other than
// ErrUserNotFound answer 500.
func (m *Manager) Middleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			s, err := m.Load(r)
			if err != nil {
				if !errors.Is(err, ErrSessionNotFound) {
					m.log.DebugContext(ctx, "dropping session cookie", logger.Component("session"), logger.Error(err))
					m.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			if resolver != nil {
				id, err := resolver.ResolveIdentity(ctx, s.UserID)
				if err != nil {
					if errors.Is(err, ErrUserNotFound) {
						m.Clear(w)
						next.ServeHTTP(w, r)
						return
					}
					m.log.ErrorContext(ctx, "failed to resolve session user",
						logger.Component("session"),
						logger.UserID(s.UserID),
						logger.Error(err),
					)
					handler.RenderError(w, r, err)
					return
				}
				s.Username = id.Username
				s.Role = id.Role
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))
		})
	}
}

// RequireAuth answers 401 when the request has no session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			handler.RenderError(w, r, handler.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission answers 401 without a session and 403 when the
// session's role lacks permission.
func RequirePermission(authz *rbac.Authorizer, permission string) func(http.Handler) http.Handler {
	return require(func(role rbac.Role) bool {
		return authz.Can(role, permission) == nil
	})
}

// RequireRole answers 401 without a session and 403 unless the session's
// role is min or inherits from it.
func RequireRole(authz *rbac.Authorizer, min rbac.Role) func(http.Handler) http.Handler {
	return require(func(role rbac.Role) bool {
		return authz.AtLeast(role, min)
	})
}

func require(allowed func(rbac.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := FromContext(r.Context())
			if !ok {
				handler.RenderError(w, r, handler.ErrUnauthorized)
				return
			}
			if !allowed(s.Role) {
				handler.RenderError(w, r, handler.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
