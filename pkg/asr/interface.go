// Package asr turns finished audio segments into text.
//
// The gateway consumes the Transcriber interface; implementations cover the
// OpenAI transcription API and a fixed-text mock used in the TESTING
// deployment mode and in tests.
package asr

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Model identifies a transcription model. The values are wire-level strings
// shared with the client protocol.
type Model string

const (
	ModelWhisper1            Model = "whisper-1"
	ModelGPT4oTranscribe     Model = "gpt-4o-transcribe"
	ModelGPT4oMiniTranscribe Model = "gpt-4o-mini-transcribe"
)

// DefaultModel is used for sessions that never send a model selection.
const DefaultModel = ModelGPT4oTranscribe

// SupportedModels lists every model the gateway accepts, in a stable order.
func SupportedModels() []Model {
	return []Model{ModelWhisper1, ModelGPT4oTranscribe, ModelGPT4oMiniTranscribe}
}

// IsValid reports whether m is one of the supported models.
func (m Model) IsValid() bool {
	switch m {
	case ModelWhisper1, ModelGPT4oTranscribe, ModelGPT4oMiniTranscribe:
		return true
	}
	return false
}

// Result represents the output of one transcription.
type Result struct {
	// Text is the recognized text.
	Text string

	// Confidence score (0.0-1.0) if the provider reports one, otherwise -1.
	Confidence float32

	// Language used for recognition.
	Language string

	// Timestamp when the transcription completed.
	Timestamp time.Time
}

// Transcriber is the interface the dispatcher consumes. Transcribe may be
// long-running and is always called from its own goroutine.
type Transcriber interface {
	// Name returns the implementation name (e.g., "openai", "mock").
	Name() string

	// Transcribe converts a complete WAV blob into text using the given
	// model. The reader is fully consumed.
	Transcribe(ctx context.Context, wav io.Reader, model Model) (*Result, error)

	// HealthCheck reports whether the backing service is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the transcriber.
	Close() error
}

// Error carries a classified transcription failure across the dispatch
// boundary.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidConfig
	ErrCodeInvalidAudio
	ErrCodeUnsupportedModel
	ErrCodeAuthenticationFailed
	ErrCodeQuotaExceeded
	ErrCodeNetworkError
	ErrCodeProviderError
)

// unsupportedModelError builds the canonical error for a model outside the
// supported set.
func unsupportedModelError(m Model) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedModel,
		Message: fmt.Sprintf("Unsupported model: %s. Supported models: %v", m, SupportedModels()),
	}
}
