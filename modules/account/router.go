package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions selects the services registered by Mount. Nil services are skipped.
type RouterOptions struct {
	Auth      Mountable
	TwoFactor Mountable
	Users     Mountable
}

// Mount registers the account services on r under /auth, /2fa and /users.
//
// Example:
//
//	account.Mount(r, account.RouterOptions{
//		Auth:      account.NewAuthService(accounts, sessions, account.WithRateLimit(limit)),
//		TwoFactor: account.NewTwoFactorService(accounts),
//		Users:     account.NewUsersService(accounts, authz),
//	})
func Mount(r chi.Router, opts RouterOptions) {
	if opts.Auth != nil {
		r.Mount("/auth", opts.Auth.Handle())
	}
	if opts.TwoFactor != nil {
		r.Mount("/2fa", opts.TwoFactor.Handle())
	}
	if opts.Users != nil {
		r.Mount("/users", opts.Users.Handle())
	}
}
