// Package logger provides structured logging attribute helpers built on Go's
// standard slog package. Helpers follow the empty Attr pattern: passing a nil
// error or an empty identifier yields an attribute that slog silently drops,
// so call sites never need nil checks.
//
// Usage:
//
//	log.Info("message delivered",
//		logger.Component("broker"),
//		logger.MessageID(id),
//		logger.Elapsed(start),
//		logger.Error(err),
//	)
package logger
