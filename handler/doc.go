// Package handler turns typed request handlers into http.HandlerFunc values.
//
// A handler receives a Context and an already-bound request struct and returns
// a Response. Binding errors and render errors are passed to an ErrorHandler,
// which writes the JSON error envelope:
//
//	type createToolRequest struct {
//		Label string `json:"label"`
//	}
//
//	h := handler.HandlerFunc[handler.Context, createToolRequest](
//		func(ctx handler.Context, req createToolRequest) handler.Response {
//			tool, err := svc.Create(ctx, req.Label)
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.JSON(tool, handler.WithJSONStatus(http.StatusCreated))
//		},
//	)
//
//	r.Post("/tools", handler.Wrap(h,
//		handler.WithBinders[handler.Context, createToolRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, createToolRequest](errHandler),
//	))
//
// Every JSON body has the shape {"data": ..., "meta": ..., "error": {...}}.
// Service errors are mapped to status codes through HTTPError values; any
// other error becomes a generic 500 and its text never reaches the client.
package handler
