package asr

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMockTranscriber_Default(t *testing.T) {
	mock := NewMockTranscriber()

	result, err := mock.Transcribe(context.Background(), bytes.NewReader(make([]byte, 100)), ModelGPT4oTranscribe)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if result.Text != MockText {
		t.Errorf("Expected %q, got %q", MockText, result.Text)
	}
	if result.Confidence != -1 {
		t.Errorf("Expected confidence -1, got %f", result.Confidence)
	}
	if result.Language != DefaultLanguage {
		t.Errorf("Expected language %q, got %q", DefaultLanguage, result.Language)
	}
}

func TestMockTranscriber_RecordsCalls(t *testing.T) {
	mock := NewMockTranscriber()

	mock.Transcribe(context.Background(), bytes.NewReader(make([]byte, 44)), ModelWhisper1)
	mock.Transcribe(context.Background(), bytes.NewReader(make([]byte, 144)), ModelGPT4oTranscribe)

	if mock.CallCount() != 2 {
		t.Fatalf("Expected 2 calls, got %d", mock.CallCount())
	}
	if mock.Calls[0].Model != ModelWhisper1 || mock.Calls[0].Bytes != 44 {
		t.Errorf("Unexpected first call record: %+v", mock.Calls[0])
	}
	if mock.Calls[1].Model != ModelGPT4oTranscribe || mock.Calls[1].Bytes != 144 {
		t.Errorf("Unexpected second call record: %+v", mock.Calls[1])
	}
}

func TestMockTranscriber_CustomText(t *testing.T) {
	mock := NewMockTranscriberWithText("hello world")

	result, err := mock.Transcribe(context.Background(), bytes.NewReader(nil), ModelWhisper1)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if result.Text != "hello world" {
		t.Errorf("Expected 'hello world', got %q", result.Text)
	}
}

func TestMockTranscriber_TranscribeFunc(t *testing.T) {
	mock := NewMockTranscriber()
	mock.TranscribeFunc = func(ctx context.Context, wav []byte, model Model) (*Result, error) {
		return nil, fmt.Errorf("provider down")
	}

	_, err := mock.Transcribe(context.Background(), bytes.NewReader(nil), ModelWhisper1)
	if err == nil {
		t.Fatal("Expected injected error")
	}
	// Injected calls are still recorded.
	if mock.CallCount() != 1 {
		t.Errorf("Expected 1 recorded call, got %d", mock.CallCount())
	}
}

func TestMockTranscriber_DelayCancelled(t *testing.T) {
	mock := NewMockTranscriber()
	mock.Delay = 5 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := mock.Transcribe(ctx, bytes.NewReader(nil), ModelWhisper1)
	if err == nil {
		t.Fatal("Expected context error")
	}
	if time.Since(start) > time.Second {
		t.Error("Transcribe did not return promptly on cancellation")
	}
}

func TestMockTranscriber_Close(t *testing.T) {
	mock := NewMockTranscriber()

	if err := mock.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !mock.CloseCalled {
		t.Error("Expected CloseCalled to be set")
	}
}
