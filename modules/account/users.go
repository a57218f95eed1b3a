package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
)

// UsersService serves the user status endpoint and admin user management.
type UsersService struct {
	accounts Accounts
	authz    *rbac.Authorizer
	opts     options
}

func NewUsersService(accounts Accounts, authz *rbac.Authorizer, opts ...Option) *UsersService {
	return &UsersService{accounts: accounts, authz: authz, opts: newOptions("users", opts)}
}

func (s *UsersService) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.With(session.RequireAuth).Get("/status", handler.Wrap(s.status))

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermUsersRead))

		r.Get("/role", handler.Wrap(s.role,
			handler.WithBinders[handler.Context, RoleQuery](binder.Query()),
		))
		r.Get("/", handler.Wrap(s.list))
		r.Get("/{id}", handler.Wrap(s.get,
			handler.WithBinders[handler.Context, UserPath](path),
		))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermUsersWrite))

		r.Post("/", handler.Wrap(s.create,
			handler.WithBinders[handler.Context, CreateUserRequest](binder.JSON()),
		))
		r.Put("/{id}/role", handler.Wrap(s.updateRole,
			handler.WithBinders[handler.Context, UpdateRoleRequest](path, binder.JSON()),
		))
		r.Delete("/{id}", handler.Wrap(s.delete,
			handler.WithBinders[handler.Context, UserPath](path),
		))
	})

	return r
}

type RoleQuery struct {
	Username string `query:"username"`
}

type UserPath struct {
	ID string `path:"id"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

type UpdateRoleRequest struct {
	ID   string `path:"id" json:"-"`
	Role string `json:"role"`
}

type StatusResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Role        rbac.Role `json:"role"`
	TOTPEnabled bool      `json:"totpEnabled"`
}

type RoleResponse struct {
	Username string    `json:"username"`
	Role     rbac.Role `json:"role"`
}

func (s *UsersService) status(ctx handler.Context, _ struct{}) handler.Response {
	userID, _ := session.UserIDFromContext(ctx)
	p, err := s.accounts.Status(ctx, userID)
	if err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(StatusResponse{
		ID:          p.ID,
		Username:    p.Username,
		Role:        p.Role,
		TOTPEnabled: p.TOTPEnabled,
	})
}

func (s *UsersService) role(ctx handler.Context, q RoleQuery) handler.Response {
	p, err := s.accounts.RoleOf(ctx, q.Username)
	if err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(RoleResponse{Username: p.Username, Role: p.Role})
}

func (s *UsersService) list(ctx handler.Context, _ struct{}) handler.Response {
	users, err := s.accounts.ListUsers(ctx)
	if err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(users, handler.WithJSONMeta(map[string]any{"total": len(users)}))
}

func (s *UsersService) get(ctx handler.Context, p UserPath) handler.Response {
	user, err := s.accounts.GetUser(ctx, p.ID)
	if err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(user)
}

func (s *UsersService) create(ctx handler.Context, req CreateUserRequest) handler.Response {
	if !s.canGrant(ctx, req.Role) {
		return handler.Fail(s.opts.log, errGrantSuperRoot)
	}
	user, err := s.accounts.CreateUser(ctx, req.Username, req.Role, req.Password)
	if err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(user, handler.WithJSONStatus(http.StatusCreated))
}

func (s *UsersService) updateRole(ctx handler.Context, req UpdateRoleRequest) handler.Response {
	if !s.canGrant(ctx, req.Role) {
		return handler.Fail(s.opts.log, errGrantSuperRoot)
	}
	user, err := s.accounts.UpdateRole(ctx, req.ID, req.Role)
	if err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(user)
}

func (s *UsersService) delete(ctx handler.Context, p UserPath) handler.Response {
	if err := s.accounts.DeleteUser(ctx, p.ID); err != nil {
		return handler.Fail(s.opts.log, httpError(err))
	}
	return handler.JSON(OKResponse{OK: true})
}

var errGrantSuperRoot = handler.ErrForbidden.WithMessage("Only the super-root can grant the super-root role")

// canGrant reports whether the caller may assign role. Only the super-root
// may hand out the super-root role; other values are left to the service.
func (s *UsersService) canGrant(ctx handler.Context, role string) bool {
	r, err := rbac.ParseRole(role)
	if err != nil || r != rbac.RoleSuperRoot {
		return true
	}
	caller, ok := session.FromContext(ctx)
	return ok && s.authz.AtLeast(caller.Role, rbac.RoleSuperRoot)
}
