// Package logger builds slog loggers with environment presets, attribute
// helpers and context extractors.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "wirekit"),
//		logger.WithConfig(cfg.Log),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "request served", logger.Method("GET"), logger.Status(200))
//
// Extractors run at log time, so attributes such as the connection id come
// from whatever context the record is logged with.
package logger
