// Package instrumentation provides OpenTelemetry metrics and tracing for
// the reminder service.
//
// A Provider owns the meter and tracer providers and their exporters.
// Metrics default to the Prometheus exporter (scraped by the dedicated
// metrics server); OTLP and stdout exporters are selectable via
// environment variables. Tracing is off by default and samples at the
// configured rate when enabled.
//
// Recorded signals cover the dispatch pipeline end to end: run totals and
// durations, per-user outcomes, calendar provider operations and outbound
// call placements, plus HTTP server traffic. User identities only ever
// appear as anonymized hashes, and only when detailed labels are enabled.
package instrumentation
