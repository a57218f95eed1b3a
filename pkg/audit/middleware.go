package audit

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
)

// resourceParams are the route parameters that identify the target of a request.
var resourceParams = []string{"id", "slug", "code"}

// Middleware records every POST, PUT, PATCH and DELETE request after it was
// served. The action is the method plus the chi route pattern, so IDs never
// leak into it. Storage errors are logged and never affect the response.
func Middleware(rec *Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			pattern := r.URL.Path
			var resourceID string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					pattern = p
				}
				for _, key := range resourceParams {
					if v := rctx.URLParam(key); v != "" {
						resourceID = v
						break
					}
				}
			}

			ctx := r.Context()
			err := rec.Record(ctx, Event{
				Action:     r.Method + " " + pattern,
				Resource:   resourceOf(pattern),
				ResourceID: resourceID,
				Status:     status,
				Result:     ResultForStatus(status),
			})
			if err != nil {
				rec.log.WarnContext(ctx, "failed to record audit event", logger.Error(err))
			}
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// resourceOf returns the first segment of a route pattern.
func resourceOf(pattern string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(pattern, "/"), "/")
	return first
}
