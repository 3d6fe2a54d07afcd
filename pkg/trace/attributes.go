package trace

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for the gateway's spans.
const (
	AttrClientID = "session.client_id"

	AttrSegmentID       = "segment.id"
	AttrSegmentSamples  = "segment.samples"
	AttrSegmentDuration = "segment.duration_seconds"

	AttrTranscriberName = "transcription.provider"
	AttrModel           = "transcription.model"
	AttrTaskID          = "transcription.task_id"
)

// SessionAttrs creates attributes for session information
func SessionAttrs(clientID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrClientID, clientID),
	}
}

// SegmentAttrs creates attributes for a sealed segment
func SegmentAttrs(segmentID uint64, samples int, durationSeconds float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(AttrSegmentID, int64(segmentID)),
		attribute.Int(AttrSegmentSamples, samples),
		attribute.Float64(AttrSegmentDuration, durationSeconds),
	}
}

// TranscriptionAttrs creates attributes for a transcription task
func TranscriptionAttrs(provider, model, taskID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrTranscriberName, provider),
		attribute.String(AttrModel, model),
		attribute.String(AttrTaskID, taskID),
	}
}
