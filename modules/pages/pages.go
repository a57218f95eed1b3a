// Package pages serves the HTML shell: the login page and the dashboard.
package pages

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/web/views"
)

// entries lists the dashboard links and the permission that unlocks each.
var entries = []struct {
	perm string
	link views.Link
}{
	{rbac.PermButtonsRead, views.Link{Title: "Buttons", Href: "/buttons", Description: "Run configured actions"}},
	{rbac.PermToolsRead, views.Link{Title: "Tools", Href: "/tools", Description: "Registered tools"}},
	{rbac.PermItemsRead, views.Link{Title: "Store items", Href: "/store-items", Description: "Inventory and product codes"}},
	{rbac.PermAccount, views.Link{Title: "Two-factor", Href: "/2fa/setup", Description: "Protect your account with TOTP"}},
	{rbac.PermUsersRead, views.Link{Title: "Users", Href: "/users", Description: "Accounts and roles"}},
	{rbac.PermAuditRead, views.Link{Title: "Audit log", Href: "/audit", Description: "Recent changes"}},
}

type Service struct {
	authz *rbac.Authorizer
}

func NewService(authz *rbac.Authorizer) *Service {
	return &Service{authz: authz}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.Get("/", handler.Wrap(s.dashboard))
	r.Get("/login", handler.Wrap(s.login))
	return r
}

func (s *Service) dashboard(ctx handler.Context, _ struct{}) handler.Response {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return handler.Redirect("/login")
	}

	data := views.DashboardData{Username: sess.Username, Role: string(sess.Role)}
	for _, e := range entries {
		if s.authz.Can(sess.Role, e.perm) == nil {
			data.Links = append(data.Links, e.link)
		}
	}
	return handler.Templ(views.Dashboard(data))
}

func (s *Service) login(ctx handler.Context, _ struct{}) handler.Response {
	if _, ok := session.FromContext(ctx); ok {
		return handler.Redirect("/")
	}
	return handler.Templ(views.Login(""))
}

// NotFound renders the HTML error page for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = handler.TemplWithStatus(views.ErrorPage(http.StatusNotFound, ""), http.StatusNotFound).Render(w, r)
}
