// Package observability wires OpenTelemetry tracing and metrics for rpckit.
//
// Setup installs OTLP/HTTP tracer and meter providers according to Config;
// Metrics holds the per-procedure instruments that middleware.Metrics
// records into, and StartSpan/SetSpanError back middleware.Tracing.
package observability
