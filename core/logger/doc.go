// Package logger provides structured logging helpers built on Go's standard slog
// package: a small logger factory and attribute helpers shared by the emit packages.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/emit/core/logger"
//
//	// Text output at debug level for local development
//	log := logger.New(logger.WithLevel(slog.LevelDebug), logger.WithOutput(os.Stderr))
//
// Hosts that need another format pass their own *slog.Logger instead.
//
//	d := dispatcher.New(dispatcher.WithLogger(log))
//
// Components accept a *slog.Logger through their WithLogger options and default to a
// discard logger, so nothing is printed unless a logger is supplied.
//
// # Attribute Helpers
//
// Attribute helpers follow the empty-Attr pattern: helpers that receive a nil or
// empty value return slog.Attr{}, which slog drops. This allows calls like
//
//	log.Warn("listener skipped", logger.Error(err), logger.EventType(t))
//
// without nil checks at the call site.
//
//	log.Debug("pipeline created",
//		logger.Component("dispatcher"),
//		logger.EventType(reflect.TypeFor[Ping]()),
//		logger.TypeKey(0),
//	)
//
//	log.Info("tick",
//		logger.Count("pipelines", n),
//		logger.Elapsed(start),
//	)
package logger
