package password

import "errors"

var (
	ErrEmptyPassword        = errors.New("password is empty")
	ErrFailedToGenerateSalt = errors.New("failed to generate salt")
)
