package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session: not found")
	ErrInvalidSession  = errors.New("session: invalid")
	ErrSessionExpired  = errors.New("session: expired")
	ErrUserNotFound    = errors.New("session: user no longer exists")
	ErrDeviceMismatch  = errors.New("session: issued to another device")
)
