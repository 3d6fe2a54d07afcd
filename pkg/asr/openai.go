package asr

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DefaultLanguage is passed to the transcription API when none is configured.
const DefaultLanguage = "ja"

// OpenAITranscriber implements Transcriber using the OpenAI audio
// transcription API.
type OpenAITranscriber struct {
	client   *openai.Client
	language string
}

// NewOpenAITranscriber creates a transcriber backed by the OpenAI API.
// apiKey must be non-empty; language may be empty to use DefaultLanguage.
// The endpoint can be overridden with OPENAI_BASE_URL.
func NewOpenAITranscriber(apiKey, language string) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, &Error{
			Code:    ErrCodeInvalidConfig,
			Message: "OpenAI API key is required",
		}
	}
	if language == "" {
		language = DefaultLanguage
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		clientConfig.BaseURL = baseURL
		log.Printf("[OpenAI ASR] Using BaseURL: %s", clientConfig.BaseURL)
	}

	return &OpenAITranscriber{
		client:   openai.NewClientWithConfig(clientConfig),
		language: language,
	}, nil
}

// Name returns the implementation name.
func (t *OpenAITranscriber) Name() string {
	return "openai"
}

// Transcribe implements Transcriber.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, wav io.Reader, model Model) (*Result, error) {
	if !model.IsValid() {
		return nil, unsupportedModelError(model)
	}

	req := openai.AudioRequest{
		Model:    string(model),
		FilePath: "audio.wav", // filename hint for the multipart upload
		Reader:   wav,
		Language: t.language,
	}

	startTime := time.Now()
	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, &Error{
			Code:    ErrCodeProviderError,
			Message: "transcription request failed",
			Err:     err,
		}
	}

	log.Printf("[OpenAI ASR] Transcribed with %s in %v: %q", model, time.Since(startTime), resp.Text)

	return &Result{
		Text:       resp.Text,
		Confidence: -1, // the transcription endpoint reports no confidence
		Language:   t.language,
		Timestamp:  time.Now(),
	}, nil
}

// HealthCheck implements Transcriber by listing available models.
func (t *OpenAITranscriber) HealthCheck(ctx context.Context) error {
	if _, err := t.client.ListModels(ctx); err != nil {
		return &Error{
			Code:    ErrCodeNetworkError,
			Message: "OpenAI API health check failed",
			Err:     err,
		}
	}
	return nil
}

// Close implements Transcriber. The underlying HTTP client needs no cleanup.
func (t *OpenAITranscriber) Close() error {
	return nil
}

// Ensure OpenAITranscriber implements Transcriber at compile time.
var _ Transcriber = (*OpenAITranscriber)(nil)
