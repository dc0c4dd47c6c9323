package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
	attrUser      = "user"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Dispatch run metrics
	dispatchRunsTotal   metric.Int64Counter
	dispatchRunDuration metric.Float64Histogram
	usersProcessedTotal metric.Int64Counter
	eventsFoundTotal    metric.Int64Counter

	// Calendar provider metrics
	calendarOperationsTotal   metric.Int64Counter
	calendarOperationDuration metric.Float64Histogram

	// Telephony provider metrics
	callsPlacedTotal  metric.Int64Counter
	callPlaceDuration metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all instruments
// initialized. The detailedLabels parameter controls whether
// high-cardinality labels (anonymized user hashes) are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.dispatchRunsTotal, err = meter.Int64Counter(
		"dispatch_runs_total",
		metric.WithDescription("Total number of reminder dispatch runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch_runs_total counter: %w", err)
	}

	m.dispatchRunDuration, err = meter.Float64Histogram(
		"dispatch_run_duration_seconds",
		metric.WithDescription("End-to-end duration of one dispatch run in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch_run_duration_seconds histogram: %w", err)
	}

	m.usersProcessedTotal, err = meter.Int64Counter(
		"dispatch_users_processed_total",
		metric.WithDescription("Users processed per dispatch run, by result"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch_users_processed_total counter: %w", err)
	}

	m.eventsFoundTotal, err = meter.Int64Counter(
		"dispatch_events_found_total",
		metric.WithDescription("Imminent calendar events found across dispatch runs"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch_events_found_total counter: %w", err)
	}

	m.calendarOperationsTotal, err = meter.Int64Counter(
		"calendar_api_operations_total",
		metric.WithDescription("Total number of calendar provider operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_api_operations_total counter: %w", err)
	}

	m.calendarOperationDuration, err = meter.Float64Histogram(
		"calendar_api_operation_duration_seconds",
		metric.WithDescription("Calendar provider operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_api_operation_duration_seconds histogram: %w", err)
	}

	m.callsPlacedTotal, err = meter.Int64Counter(
		"telephony_calls_placed_total",
		metric.WithDescription("Outbound reminder call placement attempts, by status"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telephony_calls_placed_total counter: %w", err)
	}

	m.callPlaceDuration, err = meter.Float64Histogram(
		"telephony_call_place_duration_seconds",
		metric.WithDescription("Call placement request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telephony_call_place_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDispatchRun records one completed dispatch run.
// Status should be "success" or "error" (fatal before the user loop).
func (m *Metrics) RecordDispatchRun(ctx context.Context, status string, duration time.Duration) {
	if m.dispatchRunsTotal == nil || m.dispatchRunDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.dispatchRunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchRunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordUserProcessed records the per-user outcome of a dispatch run.
// Result should be one of the UserResult* constants. The userHash label is
// only attached when detailed labels are enabled; pass an anonymized hash,
// never a raw email.
func (m *Metrics) RecordUserProcessed(ctx context.Context, result, userHash string) {
	if m.usersProcessedTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResult, result),
	}
	if m.detailedLabels && userHash != "" {
		attrs = append(attrs, attribute.String(attrUser, userHash))
	}

	m.usersProcessedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordEventsFound adds the number of imminent events found for one user.
func (m *Metrics) RecordEventsFound(ctx context.Context, count int64) {
	if m.eventsFoundTotal == nil || count == 0 {
		return
	}

	m.eventsFoundTotal.Add(ctx, count)
}

// RecordCalendarOperation records a calendar provider operation with
// operation name, status, and duration.
func (m *Metrics) RecordCalendarOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.calendarOperationsTotal == nil || m.calendarOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.calendarOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.calendarOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordCallPlaced records one outbound call placement attempt.
// Status should be "success" or "error".
func (m *Metrics) RecordCallPlaced(ctx context.Context, status string, duration time.Duration) {
	if m.callsPlacedTotal == nil || m.callPlaceDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.callsPlacedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.callPlaceDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
