package buttons

import "errors"

var (
	ErrButtonNotFound    = errors.New("button not found")
	ErrUnknownActionType = errors.New("unknown action type")
	ErrInvalidParameters = errors.New("invalid action parameters")
)
