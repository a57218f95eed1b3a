// Package session keeps the signed-in user in an HMAC-signed cookie.
//
// The cookie carries the user id, username, role and expiry; nothing is
// stored server side. Middleware re-reads the user through a UserResolver
// on every request, so role changes and deletions apply immediately and
// the role stored in the cookie is only a fallback for the UI.
//
//	sessions := session.New(cookies, session.WithTTL(12*time.Hour))
//	r.Use(sessions.Middleware(users))
//	r.With(session.RequireAuth).Get("/users/status", status)
//	r.With(session.RequirePermission(authz, rbac.PermButtonsWrite)).Post("/buttons", create)
package session
