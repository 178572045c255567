// Package log provides the logging abstraction used across shotship.
//
// Library code logs through the [Logger] interface so that embedding
// applications can route messages into their own logging setup. A zerolog
// adapter and a no-op logger are provided.
//
// # Usage
//
//	logger := log.NewZerologAdapter()
//	logger.Info("shot delivered", log.String("shot_id", id), log.Duration("took", d))
//
// Library defaults to the no-op logger, so nothing is printed unless a logger
// is injected.
package log
