// Package logger builds slog loggers with functional options and provides
// attribute helpers that keep key names consistent across packages.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler with LogHandlerDecorator, which runs the registered
// ContextExtractor callbacks on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "alertdemo"),
//	    logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "alert broadcast",
//	    logger.Topic("billing"),
//	    logger.AlertID(alertID),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
