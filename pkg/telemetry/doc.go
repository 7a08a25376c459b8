// Package telemetry groups the observability packages of mailexport.
//
//   - logging: structured slog logging with redaction of credentials and
//     e-mail addresses
//   - tracing: OpenTelemetry spans per run and per table export
//   - health: preflight checks for the source database and output paths
//
// Export metrics live with the exporter in package export.
package telemetry
