// Package logging provides structured logging utilities for scriptsync.
//
// All logging goes through log/slog. This package centralizes the attribute
// names used across the codebase and builds the process-wide handler: a
// colourised console handler (tint) for terminals, or JSON for log
// collectors.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "script.upsert")
//	logger.Info("updated file",
//	    logging.File("Main.gs"),
//	    logging.Status(logging.StatusSuccess))
//
// Never log token material directly:
//
//	logger.Debug("token loaded", "access_token", logging.SanitizeToken(tok.AccessToken))
package logging
