package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
)

// Writer stores a single event.
type Writer interface {
	Store(ctx context.Context, e Event) error
}

// Recorder fills request-scoped fields of events and passes them to a Writer.
type Recorder struct {
	writer    Writer
	userID    func(context.Context) (string, bool)
	requestID func(context.Context) string
	ip        func(context.Context) string
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Recorder)

// WithUserIDExtractor sets how the acting user is read from the context.
func WithUserIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(r *Recorder) {
		r.userID = fn
	}
}

func WithRequestIDExtractor(fn func(context.Context) string) Option {
	return func(r *Recorder) {
		r.requestID = fn
	}
}

func WithIPExtractor(fn func(context.Context) string) Option {
	return func(r *Recorder) {
		r.ip = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRecorder creates a Recorder. It panics without a writer.
func NewRecorder(w Writer, opts ...Option) *Recorder {
	if w == nil {
		panic("audit: writer is required")
	}
	r := &Recorder{writer: w, now: time.Now, log: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("audit"))
	return r
}

// Record completes e from ctx and stores it. Fields already set on e win
// over extracted ones.
func (r *Recorder) Record(ctx context.Context, e Event) error {
	if err := e.validate(); err != nil {
		return err
	}

	if e.UserID == "" && r.userID != nil {
		e.UserID, _ = r.userID(ctx)
	}
	if e.RequestID == "" && r.requestID != nil {
		e.RequestID = r.requestID(ctx)
	}
	if e.IP == "" && r.ip != nil {
		e.IP = r.ip(ctx)
	}
	if e.Result == "" {
		e.Result = ResultSuccess
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}

	return r.writer.Store(ctx, e)
}
