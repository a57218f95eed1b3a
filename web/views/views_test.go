package views_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/web/views"
)

func TestLoginPage(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, views.Login(`<b>bad</b>`).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `<title>Sign in · OpsDesk</title>`)
	assert.Contains(t, html, `name="username"`)
	assert.Contains(t, html, `name="token"`)
	assert.Contains(t, html, "&lt;b&gt;bad&lt;/b&gt;")
	assert.NotContains(t, html, "<b>bad</b>")
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := views.Dashboard(views.DashboardData{
		Username: "alice",
		Role:     "admin",
		Links: []views.Link{
			{Title: "Buttons", Href: "/buttons", Description: "Configured actions"},
			{Title: "Users", Href: "/users", Description: "Accounts & roles"},
		},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "alice")
	assert.Contains(t, html, `href="/buttons"`)
	assert.Contains(t, html, `href="/users"`)
	assert.Contains(t, html, "Accounts &amp; roles")
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		message string
		want    string
	}{
		{"custom message", http.StatusForbidden, "Admins only", "Admins only"},
		{"status text fallback", http.StatusNotFound, "", "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, views.ErrorPage(tt.status, tt.message).Render(context.Background(), &buf))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
