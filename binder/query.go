package binder

import "net/http"

// Query binds `query:"name"` tagged fields from the URL query string.
// Slices accept repeated keys and comma-separated values.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindFields(v, "query", func(name string) []string { return q[name] }, ErrInvalidQuery)
	}
}
