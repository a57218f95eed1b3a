// Package buttons serves the configurable buttons API.
package buttons

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/svc/buttons"
)

// Buttons is the part of buttons.Service used by the HTTP layer.
type Buttons interface {
	List(ctx context.Context) ([]*buttons.Button, error)
	Get(ctx context.Context, id string) (*buttons.Button, error)
	Create(ctx context.Context, name string, action buttons.Action, createdBy string) (*buttons.Button, error)
	Update(ctx context.Context, id, name string, action buttons.Action) (*buttons.Button, error)
	Delete(ctx context.Context, id string) error
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service exposes buttons over HTTP. Any signed-in user may read them;
// changes need buttons.write.
type Service struct {
	buttons Buttons
	authz   *rbac.Authorizer
	log     *slog.Logger
}

func NewService(b Buttons, authz *rbac.Authorizer, opts ...Option) *Service {
	s := &Service{buttons: b, authz: authz, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("buttons"))
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermButtonsRead))

		r.Get("/", handler.Wrap(s.list))
		r.Get("/{id}", handler.Wrap(s.get,
			handler.WithBinders[handler.Context, ButtonPath](path),
		))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermButtonsWrite))

		r.Post("/", handler.Wrap(s.create,
			handler.WithBinders[handler.Context, ButtonRequest](binder.JSON()),
		))
		r.Put("/{id}", handler.Wrap(s.update,
			handler.WithBinders[handler.Context, ButtonRequest](path, binder.JSON()),
		))
		r.Delete("/{id}", handler.Wrap(s.delete,
			handler.WithBinders[handler.Context, ButtonPath](path),
		))
	})

	return r
}

type ButtonPath struct {
	ID string `path:"id"`
}

// ButtonRequest is the body of create and update. Parameters are decoded
// according to ActionType.
type ButtonRequest struct {
	ID         string          `path:"id" json:"-"`
	Name       string          `json:"name"`
	ActionType string          `json:"actionType"`
	Parameters json.RawMessage `json:"parameters"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func (s *Service) list(ctx handler.Context, _ struct{}) handler.Response {
	list, err := s.buttons.List(ctx)
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(list, handler.WithJSONMeta(map[string]any{"total": len(list)}))
}

func (s *Service) get(ctx handler.Context, p ButtonPath) handler.Response {
	b, err := s.buttons.Get(ctx, p.ID)
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(b)
}

func (s *Service) create(ctx handler.Context, req ButtonRequest) handler.Response {
	action, err := buttons.DecodeAction(req.ActionType, req.Parameters)
	if err != nil {
		return handler.Fail(s.log, err)
	}

	userID, _ := session.UserIDFromContext(ctx)
	b, err := s.buttons.Create(ctx, req.Name, action, userID)
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(b, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Service) update(ctx handler.Context, req ButtonRequest) handler.Response {
	action, err := buttons.DecodeAction(req.ActionType, req.Parameters)
	if err != nil {
		return handler.Fail(s.log, err)
	}

	b, err := s.buttons.Update(ctx, req.ID, req.Name, action)
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(b)
}

func (s *Service) delete(ctx handler.Context, p ButtonPath) handler.Response {
	if err := s.buttons.Delete(ctx, p.ID); err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true})
}

func httpError(err error) error {
	if errors.Is(err, buttons.ErrButtonNotFound) {
		return handler.ErrNotFound.WithMessage("Button not found")
	}
	return err
}
