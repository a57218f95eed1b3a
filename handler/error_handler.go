package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/requestid"
)

// NewErrorHandler returns an ErrorHandler that logs the failure and writes the
// JSON error envelope. Client errors log at warn, server errors at error.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		logRequestError(log, r, err)
		RenderError(ctx.ResponseWriter(), r, err)
	}
}

// Fail is Error that also logs err the way NewErrorHandler does. Handlers
// use it so the cause of a 500 is recorded while the client sees a generic
// message.
func Fail(log *slog.Logger, err error) Response {
	if log == nil {
		log = slog.Default()
	}
	return failResponse{log: log, err: err}
}

type failResponse struct {
	log *slog.Logger
	err error
}

func (f failResponse) Render(w http.ResponseWriter, r *http.Request) error {
	logRequestError(f.log, r, f.err)
	return Error(f.err).Render(w, r)
}

func logRequestError(log *slog.Logger, r *http.Request, err error) {
	status, _ := classify(err)

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	log.LogAttrs(r.Context(), level, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		slog.Int("status_code", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	)
}
