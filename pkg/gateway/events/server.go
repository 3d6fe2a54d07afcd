package events

import (
	"fmt"

	"github.com/voicegw/voicegw/pkg/asr"
)

// ConnectionEstablished is sent when a connection is accepted and again when
// the client switches models.
type ConnectionEstablished struct {
	Base
	ClientID string    `json:"client_id"`
	Message  string    `json:"message"`
	Model    asr.Model `json:"model"`
}

func NewConnectionEstablished(clientID string, model asr.Model) *ConnectionEstablished {
	return &ConnectionEstablished{
		Base:     NewBase(TypeConnectionEstablished),
		ClientID: clientID,
		Message:  "WebSocket connection established successfully",
		Model:    model,
	}
}

// AudioReceived acknowledges one inbound binary chunk.
type AudioReceived struct {
	Base
	DataSize    int    `json:"data_size"`
	PacketCount uint64 `json:"packet_count"`
	Message     string `json:"message"`
}

func NewAudioReceived(dataSize int, packetCount uint64) *AudioReceived {
	return &AudioReceived{
		Base:        NewBase(TypeAudioReceived),
		DataSize:    dataSize,
		PacketCount: packetCount,
		Message:     fmt.Sprintf("Audio data received successfully (%d bytes)", dataSize),
	}
}

// Statistics is sent every tenth inbound chunk.
type Statistics struct {
	Base
	TotalPackets uint64 `json:"total_packets"`
	Message      string `json:"message"`
}

func NewStatistics(totalPackets uint64) *Statistics {
	return &Statistics{
		Base:         NewBase(TypeStatistics),
		TotalPackets: totalPackets,
		Message:      fmt.Sprintf("Total audio packets received: %d", totalPackets),
	}
}

// VADResult reports one frame's detector verdict. Optional; emitted only
// when the gateway is configured for client-side visualization.
type VADResult struct {
	Base
	IsSpeech   bool    `json:"is_speech"`
	Confidence float32 `json:"confidence"`
}

func NewVADResult(isSpeech bool, confidence float32) *VADResult {
	return &VADResult{
		Base:       NewBase(TypeVADResult),
		IsSpeech:   isSpeech,
		Confidence: confidence,
	}
}

// TranscriptionResult carries the text for one segment.
type TranscriptionResult struct {
	Base
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Confidence float32   `json:"confidence"`
	IsFinal    bool      `json:"is_final"`
	SegmentID  uint64    `json:"segment_id"`
	ModelUsed  asr.Model `json:"model_used"`
}

func NewTranscriptionResult(clientID string, segmentID uint64, text string, confidence float32, model asr.Model) *TranscriptionResult {
	return &TranscriptionResult{
		Base:       NewBase(TypeTranscriptionResult),
		ID:         fmt.Sprintf("%s_%d", clientID, segmentID),
		Text:       text,
		Confidence: confidence,
		IsFinal:    true,
		SegmentID:  segmentID,
		ModelUsed:  model,
	}
}

// TranscriptionError reports a per-segment transcriber failure. The session
// stays open.
type TranscriptionError struct {
	Base
	SegmentID uint64    `json:"segment_id"`
	Error     string    `json:"error"`
	ModelUsed asr.Model `json:"model_used"`
}

func NewTranscriptionError(segmentID uint64, errText string, model asr.Model) *TranscriptionError {
	return &TranscriptionError{
		Base:      NewBase(TypeTranscriptionError),
		SegmentID: segmentID,
		Error:     errText,
		ModelUsed: model,
	}
}

// SkipReasonTooShort is the reason reported for segments below the minimum
// transcribable length.
const SkipReasonTooShort = "Audio segment too short"

// TranscriptionSkipped reports a segment that was not worth transcribing.
type TranscriptionSkipped struct {
	Base
	SegmentID       uint64  `json:"segment_id"`
	Reason          string  `json:"reason"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func NewTranscriptionSkipped(segmentID uint64, reason string, durationSeconds float64) *TranscriptionSkipped {
	return &TranscriptionSkipped{
		Base:            NewBase(TypeTranscriptionSkipped),
		SegmentID:       segmentID,
		Reason:          reason,
		DurationSeconds: durationSeconds,
	}
}

// SegmentMergeError reports a merger delivery failure. The merger's state is
// reset; the session stays open.
type SegmentMergeError struct {
	Base
	Error string `json:"error"`
}

func NewSegmentMergeError(errText string) *SegmentMergeError {
	return &SegmentMergeError{
		Base:  NewBase(TypeSegmentMergeError),
		Error: errText,
	}
}

// Error reports a protocol-level problem with an inbound message.
type Error struct {
	Base
	Message string `json:"message"`
}

func NewError(message string) *Error {
	return &Error{
		Base:    NewBase(TypeError),
		Message: message,
	}
}
