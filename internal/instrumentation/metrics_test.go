package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/api/cron/check-events", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/api/cron/check-events", 401, 5*time.Millisecond)
}

func TestMetrics_RecordDispatchRun(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	// Should not panic
	metrics.RecordDispatchRun(ctx, StatusSuccess, 2*time.Second)
	metrics.RecordDispatchRun(ctx, StatusError, 100*time.Millisecond)
}

func TestMetrics_RecordUserProcessed(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	metrics.RecordUserProcessed(ctx, UserResultCalled, "user:abcd1234")
	metrics.RecordUserProcessed(ctx, UserResultNoScopes, "")
	metrics.RecordUserProcessed(ctx, UserResultUnauthorized, "user:ffff0000")
}

func TestMetrics_RecordCalendarOperation(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	metrics.RecordCalendarOperation(ctx, "list_events", StatusSuccess, 200*time.Millisecond)
	metrics.RecordCalendarOperation(ctx, "list_events", StatusError, 500*time.Millisecond)
}

func TestMetrics_RecordCallPlaced(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	metrics.RecordCallPlaced(ctx, StatusSuccess, 300*time.Millisecond)
	metrics.RecordCallPlaced(ctx, StatusError, 150*time.Millisecond)
}

func TestMetrics_UninitializedIsNoop(t *testing.T) {
	ctx := context.Background()
	metrics := &Metrics{}

	// Recording on an uninitialized Metrics (disabled instrumentation)
	// must be a silent no-op.
	metrics.RecordHTTPRequest(ctx, "GET", "/", 200, time.Millisecond)
	metrics.RecordDispatchRun(ctx, StatusSuccess, time.Second)
	metrics.RecordUserProcessed(ctx, UserResultCalled, "")
	metrics.RecordEventsFound(ctx, 3)
	metrics.RecordCalendarOperation(ctx, "list_events", StatusSuccess, time.Millisecond)
	metrics.RecordCallPlaced(ctx, StatusSuccess, time.Millisecond)
}

func TestProviderDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("disabled provider must still return a usable no-op Metrics")
	}
	if provider.Tracer("test") == nil {
		t.Error("disabled provider must still return a noop tracer")
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("disabled provider shutdown returned error: %v", err)
	}
}
