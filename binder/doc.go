// Package binder decodes HTTP requests into request structs.
//
// JSON decodes the body strictly (unknown fields rejected, 1 MiB limit),
// Query reads `query:"name"` tagged fields from the URL query and Path reads
// `path:"name"` tagged fields through a router-specific extractor such as
// chi.URLParam. Binders are combined with handler.WithBinders:
//
//	type updateToolRequest struct {
//		Slug  string `path:"slug" json:"-"`
//		Label string `json:"label"`
//	}
//
//	handler.WithBinders[handler.Context, updateToolRequest](
//		binder.Path(chi.URLParam),
//		binder.JSON(),
//	)
//
// Every error returned by a binder satisfies IsBindError.
package binder
