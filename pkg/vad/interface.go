// Package vad provides voice activity detection over fixed-size PCM frames.
//
// The production detector wraps the Silero VAD ONNX model and is only
// compiled with the 'vad' build tag (it needs the ONNX Runtime shared
// library). Without the tag, NewSileroDetector returns an error and the
// gateway must run with the mock detector instead.
//
// Detectors carry per-stream model state, so every session owns its own
// instance; none of the implementations are safe for concurrent use.
package vad

import (
	"context"
	"fmt"
)

const (
	// DefaultThreshold is the speech probability above which a frame is
	// classified as speech.
	DefaultThreshold = 0.5

	// DefaultMockProbability is what the mock detector reports when no
	// explicit probability is configured.
	DefaultMockProbability = 0.8
)

// Detector scores PCM16LE frames for speech activity.
type Detector interface {
	// Predict scores one frame and classifies it against the configured
	// threshold. The probability is in [0, 1]; higher means speech.
	Predict(frame []byte) (isSpeech bool, probability float32, err error)

	// HealthCheck reports whether the detector can score frames.
	HealthCheck(ctx context.Context) error

	// Close releases all resources held by the detector.
	// The detector must not be used after Close.
	Close() error
}

// LogLevel represents the ONNX Runtime logging level.
type LogLevel int

const (
	LogLevelVerbose LogLevel = iota + 1
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// DetectorConfig holds configuration for the production detector.
type DetectorConfig struct {
	// The path to the ONNX Silero VAD model file to load.
	ModelPath string
	// The sampling rate of the input audio. Supported values are 8000 and 16000.
	SampleRate int
	// Speech probability threshold; zero means DefaultThreshold.
	Threshold float32
	// The log level for the ONNX environment, by default LogLevelWarn.
	LogLevel LogLevel
}

// IsValid validates the detector configuration.
func (c DetectorConfig) IsValid() error {
	if c.ModelPath == "" {
		return fmt.Errorf("invalid ModelPath: should not be empty")
	}
	if c.SampleRate != 8000 && c.SampleRate != 16000 {
		return fmt.Errorf("invalid SampleRate: valid values are 8000 and 16000")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("invalid Threshold: must be within [0, 1]")
	}
	return nil
}
