// Package logging provides structured logging for hadeck.
//
// This package wraps zap with convenience functions for the logging patterns
// used throughout the application. Logging is silent by default so the
// dashboard and CLI commands produce no unexpected output; set
// HADECK_LOG_LEVEL to enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (service call payloads, state updates)
//   - Info: Normal operations (connections, discovery, refreshes)
//   - Warn: Non-fatal issues (failed commands, reconnects)
//   - Error: Fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Entity refreshed",
//	    zap.String("entity_id", "climate.living_room"),
//	    zap.String("state", "heat"),
//	)
//
// # Output
//
// While the dashboard is running it owns the terminal, so logs default to
// stderr only when a level is set explicitly; set HADECK_LOG_FILE to keep
// them out of the display entirely:
//
//	HADECK_LOG_LEVEL=debug HADECK_LOG_FILE=/tmp/hadeck.log hadeck
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
