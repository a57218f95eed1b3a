package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/session"
)

// TwoFactorService serves TOTP enrolment for the signed-in user.
type TwoFactorService struct {
	accounts Accounts
	opts     options
}

func NewTwoFactorService(accounts Accounts, opts ...Option) *TwoFactorService {
	return &TwoFactorService{accounts: accounts, opts: newOptions("2fa", opts)}
}

func (s *TwoFactorService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(session.RequireAuth)

	r.Post("/setup", handler.Wrap(s.setup))
	r.With(s.opts.limited).Post("/enable", handler.Wrap(s.enable,
		handler.WithBinders[handler.Context, EnableTOTPRequest](binder.JSON()),
	))
	r.Post("/disable", handler.Wrap(s.disable))

	return r
}

type EnableTOTPRequest struct {
	Token string `json:"token"`
}

func (s *TwoFactorService) setup(ctx handler.Context, _ struct{}) handler.Response {
	userID, _ := session.UserIDFromContext(ctx)
	setup, err := s.accounts.SetupTOTP(ctx, userID)
	if err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(setup)
}

func (s *TwoFactorService) enable(ctx handler.Context, req EnableTOTPRequest) handler.Response {
	userID, _ := session.UserIDFromContext(ctx)
	if err := s.accounts.EnableTOTP(ctx, userID, req.Token); err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true, Message: "Two-factor authentication enabled"})
}

func (s *TwoFactorService) disable(ctx handler.Context, _ struct{}) handler.Response {
	userID, _ := session.UserIDFromContext(ctx)
	if err := s.accounts.DisableTOTP(ctx, userID); err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true, Message: "Two-factor authentication disabled"})
}
