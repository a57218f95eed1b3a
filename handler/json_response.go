package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

// JSONResponse is the envelope of every JSON body.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta adds metadata to the envelope.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON wraps v in the data field of the envelope.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Error returns a response that renders err in the error field of the envelope.
// Unknown errors become a 500 without detail.
func Error(err error) Response {
	status, detail := classify(err)
	return &jsonResponse{status: status, body: JSONResponse{Error: detail}}
}

// classify maps an error to a status code and client-safe detail.
func classify(err error) (int, *ErrorDetail) {
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		detail := &ErrorDetail{Code: "validation_error", Message: "validation failed"}
		if len(validationErr) > 0 {
			detail.Details = make(map[string][]string, len(validationErr))
			maps.Copy(detail.Details, validationErr)
		}
		return http.StatusBadRequest, detail
	}

	if fieldErrs := validator.ExtractValidationErrors(err); fieldErrs != nil {
		return http.StatusBadRequest, &ErrorDetail{
			Code:    "validation_error",
			Message: "validation failed",
			Details: fieldErrs.Fields(),
		}
	}

	if binder.IsBindError(err) {
		base := ErrBadRequest
		switch {
		case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
			base = ErrUnsupportedMediaType
		case errors.Is(err, binder.ErrBodyTooLarge):
			base = ErrRequestEntityTooLarge
		}
		return base.Code, &ErrorDetail{Code: base.Key, Message: err.Error()}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		msg := httpErr.Message
		if msg == "" {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: msg}
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    ErrInternalServerError.Key,
		Message: "An error occurred processing your request",
	}
}

// RenderError writes err as a JSON envelope.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	// Render only fails when the client is gone.
	_ = Error(err).Render(w, r)
}
