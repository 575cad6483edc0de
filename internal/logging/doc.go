// Package logging provides structured logging for tablekit.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is given explicitly or through the
// TABLEKIT_LOG_LEVEL environment variable, so library users and CLI commands
// see no output by default.
//
// # Log Levels
//
//   - Debug: host requests (reload, delete rows, index reload), websocket frames
//   - Info: bridge lifecycle, viewer connections
//   - Warn: recoverable misuse (after-create styler without a reuse tag, stale
//     index section)
//   - Error: contract violations, logged just before the panic
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Bridge started", zap.String("addr", addr))
//
// Tests can capture output with SetLogger and go.uber.org/zap/zaptest/observer.
package logging
