package vad

import (
	"context"
	"sync"
)

// MockDetector is a mock implementation of Detector for testing and for the
// TESTING deployment mode. Scoring behavior is customized through ProbFunc;
// the threshold classification matches the production detector.
type MockDetector struct {
	// ProbFunc returns the speech probability for a frame.
	// If nil, Predict reports 0.0 (no speech).
	ProbFunc func(frame []byte) (float32, error)

	// Threshold classifies probabilities into the speech boolean.
	Threshold float32

	// PredictCalls records all frames passed to Predict.
	PredictCalls [][]byte

	// HealthCheckCalled tracks if HealthCheck was called.
	HealthCheckCalled bool

	// CloseCalled tracks if Close was called.
	CloseCalled bool

	mu sync.Mutex
}

// NewMockDetector creates a MockDetector that classifies every frame as
// silence.
func NewMockDetector() *MockDetector {
	return &MockDetector{
		Threshold:    DefaultThreshold,
		PredictCalls: make([][]byte, 0),
	}
}

// NewMockDetectorWithProb creates a MockDetector returning a fixed
// probability.
func NewMockDetectorWithProb(prob float32) *MockDetector {
	m := NewMockDetector()
	m.ProbFunc = func(frame []byte) (float32, error) {
		return prob, nil
	}
	return m
}

// NewMockDetectorWithSequence creates a MockDetector that returns
// probabilities in sequence, cycling back to the beginning when exhausted.
func NewMockDetectorWithSequence(probs []float32) *MockDetector {
	m := NewMockDetector()
	idx := 0
	m.ProbFunc = func(frame []byte) (float32, error) {
		if len(probs) == 0 {
			return 0, nil
		}
		prob := probs[idx]
		idx = (idx + 1) % len(probs)
		return prob, nil
	}
	return m
}

// Predict implements Detector.
func (m *MockDetector) Predict(frame []byte) (bool, float32, error) {
	m.mu.Lock()
	// Copy to avoid issues with reused slices.
	frameCopy := make([]byte, len(frame))
	copy(frameCopy, frame)
	m.PredictCalls = append(m.PredictCalls, frameCopy)
	m.mu.Unlock()

	var prob float32
	if m.ProbFunc != nil {
		var err error
		prob, err = m.ProbFunc(frame)
		if err != nil {
			return false, 0, err
		}
	}
	return prob >= m.Threshold, prob, nil
}

// HealthCheck implements Detector.
func (m *MockDetector) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HealthCheckCalled = true
	return nil
}

// Close implements Detector.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// GetPredictCallCount returns the number of times Predict was called.
func (m *MockDetector) GetPredictCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PredictCalls)
}

// Ensure MockDetector implements Detector at compile time.
var _ Detector = (*MockDetector)(nil)
