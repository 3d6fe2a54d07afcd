// Package config reads the gateway's configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/voicegw/voicegw/pkg/segment"
	"github.com/voicegw/voicegw/pkg/vad"
)

// Config is the process-wide configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// Testing swaps in the mock detector and mock transcriber.
	Testing bool

	// OpenAIAPIKey is the production transcriber credential. Required
	// unless Testing.
	OpenAIAPIKey string

	// Language passed to the transcription API.
	Language string

	// SilenceTolerance is the seconds of silence that seal an utterance.
	SilenceTolerance float64

	// VADThreshold is the speech probability threshold.
	VADThreshold float32

	// VADModelPath locates the Silero ONNX model (vad build tag only).
	VADModelPath string

	// EmitVADResults enables per-frame vad_result events.
	EmitVADResults bool

	// SegmentsDir is the root of the filesystem sink; empty disables
	// archival.
	SegmentsDir string

	// DatabaseURL is the Postgres DSN for the DB health probe; empty means
	// the probe reports unavailable.
	DatabaseURL string

	// TraceExporter selects the span exporter: stdout, otlp, or none.
	TraceExporter string
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		Language:         "ja",
		SilenceTolerance: segment.DefaultSilenceTolerance,
		VADThreshold:     vad.DefaultThreshold,
		VADModelPath:     "models/silero_vad.onnx",
		SegmentsDir:      "audio_files",
		TraceExporter:    "none",
	}
}

// FromEnv builds the configuration from environment variables on top of the
// defaults.
func FromEnv() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.Testing = os.Getenv("TESTING") == "true"
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("TRANSCRIBE_LANGUAGE"); v != "" {
		cfg.Language = v
	}

	if v := os.Getenv("VAD_SILENCE_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("config: invalid VAD_SILENCE_TOLERANCE %q", v)
		}
		cfg.SilenceTolerance = f
	}
	if v := os.Getenv("VAD_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("config: invalid VAD_THRESHOLD %q", v)
		}
		cfg.VADThreshold = float32(f)
	}
	if v := os.Getenv("VAD_MODEL_PATH"); v != "" {
		cfg.VADModelPath = v
	}
	cfg.EmitVADResults = os.Getenv("VAD_EMIT_RESULTS") == "true"

	if v, ok := os.LookupEnv("SEGMENTS_DIR"); ok {
		cfg.SegmentsDir = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("TRACE_EXPORTER"); v != "" {
		cfg.TraceExporter = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if !c.Testing && c.OpenAIAPIKey == "" {
		return fmt.Errorf("config: OPENAI_API_KEY is required unless TESTING=true")
	}
	switch c.TraceExporter {
	case "stdout", "otlp", "none":
	default:
		return fmt.Errorf("config: invalid TRACE_EXPORTER %q (want stdout, otlp, or none)", c.TraceExporter)
	}
	return nil
}
