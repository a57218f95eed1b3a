package account

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordAlreadySet = errors.New("password already set")
	ErrPasswordNotSet     = errors.New("password not set")
)

var (
	ErrTOTPRequired       = errors.New("totp code required")
	ErrInvalidTOTP        = errors.New("invalid totp code")
	ErrTOTPAlreadyEnabled = errors.New("totp already enabled")
	ErrTOTPNotPending     = errors.New("totp setup not started")
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrSuperRootExists    = errors.New("super-root already exists")
	ErrSuperRootProtected = errors.New("super-root cannot be modified")
)
