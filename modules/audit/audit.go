// Package audit serves the audit log to super-root users.
package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/audit"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

// Reader lists stored events.
type Reader interface {
	Find(ctx context.Context, c audit.Criteria) ([]audit.Event, error)
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

type Service struct {
	events Reader
	authz  *rbac.Authorizer
	log    *slog.Logger
}

func NewService(events Reader, authz *rbac.Authorizer, opts ...Option) *Service {
	s := &Service{events: events, authz: authz, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("audit"))
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(session.RequirePermission(s.authz, rbac.PermAuditRead))
	r.Get("/", handler.Wrap(s.list,
		handler.WithBinders[handler.Context, ListRequest](binder.Query()),
	))
	return r
}

type ListRequest struct {
	UserID   string `query:"userId"`
	Resource string `query:"resource"`
	Limit    int    `query:"limit"`
}

func (s *Service) list(ctx handler.Context, req ListRequest) handler.Response {
	if err := validator.Apply(
		validator.MinNum("limit", req.Limit, 0),
		validator.MaxNum("limit", req.Limit, audit.MaxLimit),
	); err != nil {
		return handler.Fail(s.log, err)
	}

	c := audit.Criteria{UserID: req.UserID, Resource: req.Resource, Limit: req.Limit}.Normalize()
	events, err := s.events.Find(ctx, c)
	if err != nil {
		return handler.Fail(s.log, err)
	}
	return handler.JSON(events, handler.WithJSONMeta(map[string]any{
		"total": len(events),
		"limit": c.Limit,
	}))
}
