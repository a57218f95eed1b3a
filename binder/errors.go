package binder

import "errors"

var (
	// ErrBinderNotApplicable is returned when a binder has nothing to read from
	// the request. handler.Wrap skips such binders.
	ErrBinderNotApplicable = errors.New("binder not applicable")

	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrInvalidQuery         = errors.New("invalid query parameter")
	ErrInvalidPath          = errors.New("invalid path parameter")
)

// IsBindError reports whether err came from a binder.
func IsBindError(err error) bool {
	for _, target := range []error{
		ErrUnsupportedMediaType, ErrMissingContentType, ErrBodyTooLarge,
		ErrInvalidJSON, ErrInvalidQuery, ErrInvalidPath,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
