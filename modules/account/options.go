package account

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
)

type options struct {
	log       *slog.Logger
	rateLimit func(http.Handler) http.Handler
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRateLimit guards the credential endpoints with mw, typically
// ratelimiter.Middleware keyed by client IP.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(o *options) {
		o.rateLimit = mw
	}
}

func newOptions(component string, opts []Option) options {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With(logger.Component(component))
	return o
}

// limited wraps h with the configured rate limit, if any.
func (o options) limited(h http.Handler) http.Handler {
	if o.rateLimit == nil {
		return h
	}
	return o.rateLimit(h)
}
