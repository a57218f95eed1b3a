// Package inventory serves the store items API.
package inventory

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
	"github.com/dmitrymomot/opsdesk/svc/inventory"
)

type Inventory interface {
	Create(ctx context.Context, in inventory.NewItem) (*inventory.Item, error)
	List(ctx context.Context) ([]*inventory.Item, error)
	Get(ctx context.Context, id string) (*inventory.Item, error)
	FindByCode(ctx context.Context, code string) (*inventory.Item, error)
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

type Service struct {
	items Inventory
	authz *rbac.Authorizer
	log   *slog.Logger
}

func NewService(items Inventory, authz *rbac.Authorizer, opts ...Option) *Service {
	s := &Service{items: items, authz: authz, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("inventory"))
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermItemsRead))

		r.Get("/", handler.Wrap(s.list))
		r.Get("/by-code/{code}", handler.Wrap(s.byCode,
			handler.WithBinders[handler.Context, CodePath](path),
		))
		r.Get("/{id}", handler.Wrap(s.get,
			handler.WithBinders[handler.Context, ItemPath](path),
		))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermItemsWrite))

		r.Post("/", handler.Wrap(s.create,
			handler.WithBinders[handler.Context, CreateItemRequest](binder.JSON()),
		))
		r.Delete("/{id}", handler.Wrap(s.delete,
			handler.WithBinders[handler.Context, ItemPath](path),
		))
	})

	return r
}

type ItemPath struct {
	ID string `path:"id"`
}

type CodePath struct {
	Code string `path:"code"`
}

type CreateItemRequest struct {
	Name       string   `json:"name"`
	Codes      []string `json:"codes"`
	Quantity   int64    `json:"quantity"`
	Categories []string `json:"categories"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func (s *Service) list(ctx handler.Context, _ struct{}) handler.Response {
	items, err := s.items.List(ctx)
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(items, handler.WithJSONMeta(map[string]any{"total": len(items)}))
}

func (s *Service) get(ctx handler.Context, p ItemPath) handler.Response {
	item, err := s.items.Get(ctx, p.ID)
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(item)
}

func (s *Service) byCode(ctx handler.Context, p CodePath) handler.Response {
	item, err := s.items.FindByCode(ctx, p.Code)
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(item)
}

func (s *Service) create(ctx handler.Context, req CreateItemRequest) handler.Response {
	item, err := s.items.Create(ctx, inventory.NewItem{
		Name:       req.Name,
		Codes:      req.Codes,
		Quantity:   req.Quantity,
		Categories: req.Categories,
	})
	if err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(item, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Service) delete(ctx handler.Context, p ItemPath) handler.Response {
	if err := s.items.Delete(ctx, p.ID); err != nil {
		return handler.Fail(s.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true})
}

func httpError(err error) error {
	if errors.Is(err, inventory.ErrItemNotFound) {
		return handler.ErrNotFound.WithMessage("Store item not found")
	}
	return err
}
