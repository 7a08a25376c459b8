// Package logging provides structured logging with PII redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Redaction of DSN credentials, passwords and e-mail addresses
//   - Run and job identifiers carried in the context
//   - Configurable log levels (debug, info, warn, error)
//
// Logs go to stderr by default; stdout is reserved for the exporter's
// progress and summary lines.
//
// # Usage
//
//	logger, err := logging.New(logging.ConfigFrom(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRunID(ctx, uuid.NewString())
//	logger.InfoContext(ctx, "export started", "dsn", source.Redacted(cfg.Source))
//
// # PII Redaction
//
// When RedactPII is enabled every attribute passes through the Redactor,
// including attributes logged through the *slog.Logger returned by Slog:
//
//   - DSN credentials: exporter:secret@tcp(db:3306)/x → exporter:***@tcp(db:3306)/x
//   - Passwords: password=secret → password=***
//   - Emails: kai@example.com → k***@example.com
//   - Values under keys such as "password", "secret" or "token" → ***
package logging
