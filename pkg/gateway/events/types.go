// Package events defines the wire protocol of the transcription gateway:
// the JSON control messages clients send and the JSON events the server
// emits. Binary audio frames are not represented here; they carry no framing
// of their own.
package events

import "time"

// MessageType identifies a wire message.
type MessageType string

const (
	// Client → server.
	TypeModelSelection MessageType = "model_selection"

	// Server → client.
	TypeConnectionEstablished MessageType = "connection_established"
	TypeAudioReceived         MessageType = "audio_received"
	TypeStatistics            MessageType = "statistics"
	TypeVADResult             MessageType = "vad_result"
	TypeTranscriptionResult   MessageType = "transcription_result"
	TypeTranscriptionError    MessageType = "transcription_error"
	TypeTranscriptionSkipped  MessageType = "transcription_skipped"
	TypeSegmentMergeError     MessageType = "segment_merge_error"
	TypeError                 MessageType = "error"
)

// ServerMessage is the interface for all server-to-client messages.
type ServerMessage interface {
	MessageType() MessageType
}

// Base carries the fields every wire message has. Timestamp is seconds since
// the Unix epoch as a float.
type Base struct {
	Type      MessageType `json:"type"`
	Timestamp float64     `json:"timestamp"`
}

func (b Base) MessageType() MessageType {
	return b.Type
}

// NewBase stamps a message with the current time.
func NewBase(t MessageType) Base {
	return Base{
		Type:      t,
		Timestamp: Now(),
	}
}

// Now returns the current time in the protocol's timestamp representation.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
