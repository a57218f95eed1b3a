package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

// ErrorPage renders a status page. An empty message falls back to the
// status text.
func ErrorPage(status int, message string) templ.Component {
	if message == "" {
		message = http.StatusText(status)
	}
	return Page(http.StatusText(status), templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<main><div class="card"><h1>`)
		w.raw(strconv.Itoa(status))
		w.raw(`</h1><p>`)
		w.text(message)
		w.raw(`</p><p><a href="/">Back to the dashboard</a></p></div></main>`)
		return w.err
	}))
}
