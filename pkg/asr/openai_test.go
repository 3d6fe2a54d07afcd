package asr

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestModelIsValid(t *testing.T) {
	valid := []Model{ModelWhisper1, ModelGPT4oTranscribe, ModelGPT4oMiniTranscribe}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("Expected %s to be valid", m)
		}
	}

	invalid := []Model{"", "gpt-4o", "whisper-2", "mock-model"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("Expected %s to be invalid", m)
		}
	}
}

func TestSupportedModels(t *testing.T) {
	models := SupportedModels()
	if len(models) != 3 {
		t.Fatalf("Expected 3 supported models, got %d", len(models))
	}
	if !DefaultModel.IsValid() {
		t.Error("Default model must be in the supported set")
	}
}

func TestOpenAITranscriber_Name(t *testing.T) {
	tr, err := NewOpenAITranscriber("test-api-key", "")
	if err != nil {
		t.Fatalf("Failed to create transcriber: %v", err)
	}
	if tr.Name() != "openai" {
		t.Errorf("Expected name 'openai', got '%s'", tr.Name())
	}
}

func TestNewOpenAITranscriber_NoAPIKey(t *testing.T) {
	_, err := NewOpenAITranscriber("", "")
	if err == nil {
		t.Fatal("Expected error when API key is empty")
	}

	var asrErr *Error
	if !errors.As(err, &asrErr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if asrErr.Code != ErrCodeInvalidConfig {
		t.Errorf("Expected ErrCodeInvalidConfig, got %v", asrErr.Code)
	}
}

func TestNewOpenAITranscriber_DefaultLanguage(t *testing.T) {
	tr, err := NewOpenAITranscriber("test-api-key", "")
	if err != nil {
		t.Fatalf("Failed to create transcriber: %v", err)
	}
	if tr.language != DefaultLanguage {
		t.Errorf("Expected language %q, got %q", DefaultLanguage, tr.language)
	}

	tr, err = NewOpenAITranscriber("test-api-key", "en")
	if err != nil {
		t.Fatalf("Failed to create transcriber: %v", err)
	}
	if tr.language != "en" {
		t.Errorf("Expected language 'en', got %q", tr.language)
	}
}

func TestOpenAITranscriber_UnsupportedModel(t *testing.T) {
	tr, err := NewOpenAITranscriber("test-api-key", "")
	if err != nil {
		t.Fatalf("Failed to create transcriber: %v", err)
	}

	// Model validation happens before any network call.
	_, err = tr.Transcribe(context.Background(), bytes.NewReader(nil), Model("bogus"))
	if err == nil {
		t.Fatal("Expected error for unsupported model")
	}

	var asrErr *Error
	if !errors.As(err, &asrErr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if asrErr.Code != ErrCodeUnsupportedModel {
		t.Errorf("Expected ErrCodeUnsupportedModel, got %v", asrErr.Code)
	}
	if !strings.Contains(err.Error(), "Unsupported model: bogus") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Code: ErrCodeProviderError, Message: "request failed", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("Expected errors.Is to find the wrapped error")
	}
	if got := err.Error(); got != "request failed: boom" {
		t.Errorf("Unexpected Error() text: %q", got)
	}
}
