// Package views holds the server-rendered pages of the dashboard: the login
// page, the dashboard and the error page. Components implement
// templ.Component and are rendered with handler.Templ.
//
// Role-dependent links are advisory. Every API route enforces its own
// permission check.
package views
