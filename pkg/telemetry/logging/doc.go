// Package logging provides structured logging for the session server and
// CLI.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging keyed on request_id, session_id, policy_id, trace_id
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("policy built",
//	    "policy_id", "block-exfil",
//	    "duration_ms", 12,
//	)
//
//	ctx := logging.WithSessionID(ctx, sessionID)
//	ctxLogger := logger.WithContext(ctx)
//	ctxLogger.Info("ingest")  // includes session_id automatically
package logging
