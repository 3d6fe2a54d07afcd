package asr

import (
	"context"
	"io"
	"sync"
	"time"
)

// MockText is the fixed transcription the mock returns by default.
const MockText = "これはテスト用の文字起こし結果です"

// MockCall records one Transcribe invocation for verification.
type MockCall struct {
	Model Model
	Bytes int
}

// MockTranscriber is a Transcriber for tests and the TESTING deployment
// mode. Behavior is customized through TranscribeFunc; by default every call
// returns MockText after Delay.
type MockTranscriber struct {
	// TranscribeFunc, when set, fully replaces the default behavior.
	// wav contains the already-consumed blob bytes.
	TranscribeFunc func(ctx context.Context, wav []byte, model Model) (*Result, error)

	// Text returned by the default behavior.
	Text string

	// Delay before the default behavior returns, to simulate a slow
	// provider.
	Delay time.Duration

	// Calls records every Transcribe invocation in order.
	Calls []MockCall

	// CloseCalled tracks if Close was called.
	CloseCalled bool

	mu sync.Mutex
}

// NewMockTranscriber creates a mock returning MockText immediately.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{Text: MockText}
}

// NewMockTranscriberWithText creates a mock returning the given text.
func NewMockTranscriberWithText(text string) *MockTranscriber {
	return &MockTranscriber{Text: text}
}

// Name returns the implementation name.
func (m *MockTranscriber) Name() string {
	return "mock"
}

// Transcribe implements Transcriber.
func (m *MockTranscriber) Transcribe(ctx context.Context, wav io.Reader, model Model) (*Result, error) {
	data, err := io.ReadAll(wav)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidAudio, Message: "failed to read audio data", Err: err}
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Model: model, Bytes: len(data)})
	fn := m.TranscribeFunc
	text := m.Text
	delay := m.Delay
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, data, model)
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &Result{
		Text:       text,
		Confidence: -1,
		Language:   DefaultLanguage,
		Timestamp:  time.Now(),
	}, nil
}

// HealthCheck implements Transcriber. Always healthy.
func (m *MockTranscriber) HealthCheck(ctx context.Context) error {
	return nil
}

// Close implements Transcriber.
func (m *MockTranscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// CallCount returns the number of Transcribe invocations so far.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Ensure MockTranscriber implements Transcriber at compile time.
var _ Transcriber = (*MockTranscriber)(nil)
