//go:build !vad

package vad

import (
	"context"
	"fmt"
)

var errNotBuilt = fmt.Errorf("VAD support is not enabled. Rebuild with '-tags vad' and ensure ONNX Runtime is installed")

// SileroDetector is a stub when built without the 'vad' build tag.
type SileroDetector struct{}

// NewSileroDetector returns an error indicating that VAD support is not built in.
func NewSileroDetector(cfg DetectorConfig) (*SileroDetector, error) {
	return nil, errNotBuilt
}

// Predict implements Detector.
func (sd *SileroDetector) Predict(frame []byte) (bool, float32, error) {
	return false, 0, errNotBuilt
}

// HealthCheck implements Detector.
func (sd *SileroDetector) HealthCheck(ctx context.Context) error {
	return errNotBuilt
}

// Close implements Detector.
func (sd *SileroDetector) Close() error {
	return nil
}

// Reset clears the detector's state for a new audio stream.
func (sd *SileroDetector) Reset() error {
	return errNotBuilt
}

// Ensure the stub implements Detector at compile time.
var _ Detector = (*SileroDetector)(nil)

// InitRuntime is a no-op without the 'vad' build tag.
func InitRuntime(libraryPath string) error { return nil }

// DestroyRuntime is a no-op without the 'vad' build tag.
func DestroyRuntime() error { return nil }
