// Package logger builds *slog.Logger values for the service.
//
// New takes functional options for format, level, output and static
// attributes, and wraps the handler with LogHandlerDecorator so values
// carried in the request context (the request id, for example) are added to
// every record logged with that context:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "opsdesk"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "user signed up", logger.UserID(id))
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Services default to Discard() when no logger is injected.
package logger
