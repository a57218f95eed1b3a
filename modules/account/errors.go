package account

import (
	"errors"

	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/svc/account"
)

var errorMap = []struct {
	target error
	status handler.HTTPError
	msg    string
}{
	{account.ErrUserNotFound, handler.ErrNotFound, "User not found"},
	{account.ErrUsernameTaken, handler.ErrConflict, "Username already taken"},
	{account.ErrInvalidCredentials, handler.ErrUnauthorized, "Invalid username or password"},
	{account.ErrPasswordAlreadySet, handler.ErrConflict, "Password already set"},
	{account.ErrPasswordNotSet, handler.ErrConflict, "Password not set"},
	{account.ErrTOTPRequired, handler.ErrUnauthorized, "Authentication code required"},
	{account.ErrInvalidTOTP, handler.ErrUnauthorized, "Invalid authentication code"},
	{account.ErrTOTPAlreadyEnabled, handler.ErrConflict, "Two-factor authentication already enabled"},
	{account.ErrTOTPNotPending, handler.ErrBadRequest, "Two-factor setup has not been started"},
	{account.ErrSuperRootExists, handler.ErrConflict, "A super-root account already exists"},
	{account.ErrSuperRootProtected, handler.ErrForbidden, "The super-root account cannot be modified"},
}

// httpError translates service errors to HTTP errors. Validation errors and
// unknown errors pass through unchanged.
func httpError(err error) error {
	for _, m := range errorMap {
		if errors.Is(err, m.target) {
			return m.status.WithMessage(m.msg)
		}
	}
	return err
}
