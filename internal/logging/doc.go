// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the service and
// convenience constructors for them, plus sanitizers that keep PII
// (user emails, phone numbers, OAuth tokens) out of log output while
// still allowing per-user correlation via stable hashes.
package logging
