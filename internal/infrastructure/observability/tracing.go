package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "pitchlab/chat-api"
)

// GetTracer returns the tracer for the chat-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// RoundAttributes returns common attributes for round spans.
func RoundAttributes(threadID string, addressees int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("round.thread_id", threadID),
		attribute.Int("round.addressees", addressees),
	}
}

// StartRoundSpan starts a new span covering one response round.
func StartRoundSpan(ctx context.Context, threadID string, addressees int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "round.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(RoundAttributes(threadID, addressees)...),
	)
}

// StartGenerationSpan starts a new span for one persona generation.
func StartGenerationSpan(ctx context.Context, threadID, personaName string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "round.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("round.thread_id", threadID),
			attribute.String("round.persona", personaName),
		),
	)
}

// StartJobSpan starts a new span covering one background round job.
func StartJobSpan(ctx context.Context, jobID, threadID string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "round.job",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("round.job_id", jobID),
			attribute.String("round.thread_id", threadID),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddFallbackEvent marks a persona turn that produced a fallback response.
func AddFallbackEvent(span trace.Span, personaName, reason string) {
	span.AddEvent("round.fallback",
		trace.WithAttributes(
			attribute.String("round.persona", personaName),
			attribute.String("fallback.reason", reason),
		),
	)
}
