// Package httpserver runs an http.Server with graceful shutdown on context
// cancellation, SIGINT or SIGTERM, and provides the liveness and readiness
// probes plus the recovery and access-log middleware used by every route.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
