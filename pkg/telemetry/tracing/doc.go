// Package tracing records OpenTelemetry spans for export runs.
//
// A run is one trace: an "export.run" span with a child span per table
// export carrying the job name, row count and error status. Spans are
// sent to an OTLP gRPC collector when telemetry.tracing.enabled is set;
// otherwise a noop tracer is used and nothing leaves the process.
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: otel-collector:4317
//	    insecure: true
package tracing
