package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for this module.
const TracerName = "github.com/callminder/callminder"

// Span attribute keys for dispatch operations.
const (
	// SpanAttrUserHash is the anonymized user identifier attribute.
	SpanAttrUserHash = "dispatch.user_hash"

	// SpanAttrEventCount is the number of imminent events found for a user.
	SpanAttrEventCount = "dispatch.event_count"

	// SpanAttrProvider is the upstream provider name (calendar, telephony).
	SpanAttrProvider = "provider.name"

	// SpanAttrOperation is the provider operation attribute.
	SpanAttrOperation = "provider.operation"
)

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartRunSpan starts the root span for one dispatch run.
func StartRunSpan(ctx context.Context) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "dispatch.run",
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartUserSpan starts a span covering one user's processing within a run.
// The user is identified by an anonymized hash, never a raw email.
func StartUserSpan(ctx context.Context, userHash string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "dispatch.user",
		trace.WithAttributes(attribute.String(SpanAttrUserHash, userHash)),
	)
}

// StartProviderSpan starts a span for an upstream provider operation
// (calendar fetch, call placement).
func StartProviderSpan(ctx context.Context, provider, operation string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, provider+"."+operation,
		trace.WithAttributes(
			attribute.String(SpanAttrProvider, provider),
			attribute.String(SpanAttrOperation, operation),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
