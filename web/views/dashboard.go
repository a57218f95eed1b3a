package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Link is a dashboard entry.
type Link struct {
	Title       string
	Href        string
	Description string
}

// DashboardData is what the dashboard shows for the signed-in user.
type DashboardData struct {
	Username string
	Role     string
	Links    []Link
}

const logoutScript = `<script>
document.getElementById("logout").addEventListener("click", async () => {
  await fetch("/auth/logout", {method: "POST"});
  window.location.assign("/login");
});
</script>`

func Dashboard(d DashboardData) templ.Component {
	return Page("Dashboard", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<header><strong>OpsDesk</strong><span>`)
		w.text(d.Username)
		w.raw(` <span class="muted">(`)
		w.text(d.Role)
		w.raw(`)</span> <button id="logout" type="button">Sign out</button></span></header>`)
		w.raw(`<main><div class="grid">`)
		for _, l := range d.Links {
			w.raw(`<a class="card" href="`)
			w.text(l.Href)
			w.raw(`"><h2>`)
			w.text(l.Title)
			w.raw(`</h2><p class="muted">`)
			w.text(l.Description)
			w.raw(`</p></a>`)
		}
		w.raw(`</div></main>`)
		w.raw(logoutScript)
		return w.err
	}))
}
