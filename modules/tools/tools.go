// Package tools serves the tools registry API.
package tools

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/svc/tools"
)

type Tools interface {
	Create(ctx context.Context, c tools.Changes) (*tools.Tool, error)
	List(ctx context.Context, includeHidden bool) ([]*tools.Tool, error)
	Get(ctx context.Context, slug string, includeHidden bool) (*tools.Tool, error)
	Update(ctx context.Context, slug string, c tools.Changes) (*tools.Tool, error)
	Delete(ctx context.Context, slug string) error
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service exposes the tools registry over HTTP. Hidden tools are only
// visible to roles holding tools.hidden.
type Service struct {
	tools Tools
	authz *rbac.Authorizer
	log   *slog.Logger
}

func NewService(t Tools, authz *rbac.Authorizer, opts ...Option) *Service {
	s := &Service{tools: t, authz: authz, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("tools"))
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermToolsRead))

		r.Get("/", handler.Wrap(s.list))
		r.Get("/{slug}", handler.Wrap(s.get,
			handler.WithBinders[handler.Context, ToolPath](path),
		))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermToolsWrite))

		r.Post("/", handler.Wrap(s.create,
			handler.WithBinders[handler.Context, ToolRequest](binder.JSON()),
		))
		r.Put("/{slug}", handler.Wrap(s.update,
			handler.WithBinders[handler.Context, ToolRequest](path, binder.JSON()),
		))
		r.Delete("/{slug}", handler.Wrap(s.delete,
			handler.WithBinders[handler.Context, ToolPath](path),
		))
	})

	return r
}

type ToolPath struct {
	Slug string `path:"slug"`
}

// ToolRequest is the body of create and update. A missing visible flag
// means visible on create and unchanged on update.
type ToolRequest struct {
	Slug        string `path:"slug" json:"-"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Visible     *bool  `json:"visible,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func (s *Service) seesHidden(ctx context.Context) bool {
	sess, ok := session.FromContext(ctx)
	return ok && s.authz.Can(sess.Role, rbac.PermToolsHidden) == nil
}

func (s *Service) list(ctx handler.Context, _ struct{}) handler.Response {
	list, err := s.tools.List(ctx, s.seesHidden(ctx))
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(list, handler.WithJSONMeta(map[string]any{"total": len(list)}))
}

func (s *Service) get(ctx handler.Context, p ToolPath) handler.Response {
	t, err := s.tools.Get(ctx, p.Slug, s.seesHidden(ctx))
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(t)
}

func (s *Service) create(ctx handler.Context, req ToolRequest) handler.Response {
	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	t, err := s.tools.Create(ctx, tools.Changes{
		Label:       req.Label,
		Description: req.Description,
		Visible:     visible,
	})
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(t, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Service) update(ctx handler.Context, req ToolRequest) handler.Response {
	var visible bool
	if req.Visible != nil {
		visible = *req.Visible
	} else {
		current, err := s.tools.Get(ctx, req.Slug, true)
		if err != nil {
			return handler.Fail(s.log, httpError(err))
		}
		visible = current.Visible
	}

	t, err := s.tools.Update(ctx, req.Slug, tools.Changes{
		Label:       req.Label,
		Description: req.Description,
		Visible:     visible,
	})
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(t)
}

func (s *Service) delete(ctx handler.Context, p ToolPath) handler.Response {
	if err := s.tools.Delete(ctx, p.Slug); err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, tools.ErrToolNotFound):
		return handler.ErrNotFound.WithMessage("Tool not found")
	case errors.Is(err, tools.ErrSlugTaken), errors.Is(err, tools.ErrSlugExhausted):
		return handler.ErrConflict.WithMessage("No free slug for this label")
	}
	return err
}
