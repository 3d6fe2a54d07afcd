package trace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names for the gateway's lifecycle operations.
const (
	SpanSession    = "gateway.session"
	SpanSegment    = "segment.seal"
	SpanTranscribe = "dispatch.transcribe"
)

// StartSessionSpan starts a span covering one client connection.
func StartSessionSpan(ctx context.Context, clientID string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanSession,
		trace.WithAttributes(SessionAttrs(clientID)...),
	)
}

// StartSegmentSpan starts a span for one sealed segment.
func StartSegmentSpan(ctx context.Context, segmentID uint64, samples int, durationSeconds float64) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanSegment,
		trace.WithAttributes(SegmentAttrs(segmentID, samples, durationSeconds)...),
	)
}

// StartTranscribeSpan starts a span for one transcription task.
func StartTranscribeSpan(ctx context.Context, provider, model, taskID string, segmentID uint64) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanTranscribe,
		trace.WithAttributes(TranscriptionAttrs(provider, model, taskID)...),
	)
	span.SetAttributes(attribute.Int64(AttrSegmentID, int64(segmentID)))
	return ctx, span
}
