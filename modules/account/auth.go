package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/svc/account"
)

// AuthService serves signup, login, logout and password endpoints.
type AuthService struct {
	accounts Accounts
	sessions *session.Manager
	opts     options
}

func NewAuthService(accounts Accounts, sessions *session.Manager, opts ...Option) *AuthService {
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		opts:     newOptions("auth", opts),
	}
}

func (s *AuthService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(s.opts.limited)

		r.Post("/signup", handler.Wrap(s.signup,
			handler.WithBinders[handler.Context, CredentialsRequest](binder.JSON()),
		))
		r.Post("/login", handler.Wrap(s.login,
			handler.WithBinders[handler.Context, LoginRequest](binder.JSON()),
		))
		r.Post("/set-password", handler.Wrap(s.setPassword,
			handler.WithBinders[handler.Context, CredentialsRequest](binder.JSON()),
		))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth)

		r.Post("/logout", handler.Wrap(s.logout))
		r.Post("/change-password", handler.Wrap(s.changePassword,
			handler.WithBinders[handler.Context, ChangePasswordRequest](binder.JSON()),
		))
	})

	return r
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type LoginResponse struct {
	OK               bool             `json:"ok"`
	RequiresPassword bool             `json:"requiresPassword"`
	RequiresTOTP     bool             `json:"requiresTotp,omitempty"`
	Message          string           `json:"message,omitempty"`
	User             *account.Profile `json:"user,omitempty"`
}

type OKResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func (s *AuthService) signup(ctx handler.Context, req CredentialsRequest) handler.Response {
	if _, err := s.accounts.Signup(ctx, req.Username, req.Password); err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true})
}

func (s *AuthService) login(ctx handler.Context, req LoginRequest) handler.Response {
	res, err := s.accounts.Login(ctx, req.Username, req.Password, req.Token)
	switch {
	case errors.Is(err, account.ErrTOTPRequired):
		return handler.JSON(LoginResponse{
			RequiresTOTP: true,
			Message:      "Enter the code from your authenticator app",
		})
	case err != nil:
		return handler.Fail(s.opts.log, httpError(err))
	case res.RequiresPassword:
		return handler.JSON(LoginResponse{
			RequiresPassword: true,
			Message:          "Set a password before signing in",
		})
	}

	if _, err := s.sessions.Issue(ctx.ResponseWriter(), ctx.Request(), session.Identity{
		UserID:   res.User.ID,
		Username: res.User.Username,
		Role:     res.User.Role,
	}); err != nil {
		return handler.Fail(s.opts.log, err)
	}

	s.opts.log.InfoContext(ctx, "session issued", logger.UserID(res.User.ID), logger.Role(res.User.Role))
	return handler.JSON(LoginResponse{OK: true, User: res.User})
}

func (s *AuthService) setPassword(ctx handler.Context, req CredentialsRequest) handler.Response {
	if err := s.accounts.SetPassword(ctx, req.Username, req.Password); err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true})
}

func (s *AuthService) logout(ctx handler.Context, _ struct{}) handler.Response {
	s.sessions.Clear(ctx.ResponseWriter())
	return handler.JSON(OKResponse{OK: true})
}

func (s *AuthService) changePassword(ctx handler.Context, req ChangePasswordRequest) handler.Response {
	userID, _ := session.UserIDFromContext(ctx)
	if err := s.accounts.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true})
}
