//go:build vad

package vad

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/voicegw/voicegw/pkg/audio"
)

const (
	stateLen   = 2 * 1 * 128
	contextLen = 64
)

// runtimeInitialized tracks whether the ONNX runtime has been initialized.
var (
	runtimeInitialized bool
	runtimeMu          sync.Mutex
)

// InitRuntime initializes the ONNX runtime environment.
// libraryPath can be empty to use auto-detection, or specify the path to
// libonnxruntime.so. Call once at application startup before creating
// detectors.
func InitRuntime(libraryPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if runtimeInitialized {
		return nil
	}

	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	} else {
		if libPath := findONNXRuntimeLibrary(); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	runtimeInitialized = true
	return nil
}

// DestroyRuntime destroys the ONNX runtime environment at shutdown.
func DestroyRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !runtimeInitialized {
		return nil
	}
	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("failed to destroy ONNX runtime: %w", err)
	}

	runtimeInitialized = false
	return nil
}

// findONNXRuntimeLibrary tries to find the ONNX Runtime shared library.
func findONNXRuntimeLibrary() string {
	paths := []string{
		os.Getenv("ONNXRUNTIME_LIB"),
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/onnxruntime/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}

	if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
		for _, dir := range filepath.SplitList(ldPath) {
			paths = append(paths, filepath.Join(dir, "libonnxruntime.so"))
		}
	}
	if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
		for _, dir := range filepath.SplitList(dyldPath) {
			paths = append(paths, filepath.Join(dir, "libonnxruntime.dylib"))
		}
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// SileroDetector scores frames with the Silero VAD model.
type SileroDetector struct {
	session *ort.DynamicAdvancedSession

	cfg DetectorConfig

	// RNN state (h, c) for the LSTM layers
	state [stateLen]float32
	// Context buffer for continuous processing
	ctx [contextLen]float32
	// currSample tracks total samples processed; on the first inference
	// (currSample == 0) no context is prepended.
	currSample int

	inputNames  []string
	outputNames []string
}

// NewSileroDetector creates a detector with the given configuration.
// The ONNX runtime is initialized on first use if InitRuntime was not called.
func NewSileroDetector(cfg DetectorConfig) (*SileroDetector, error) {
	if err := cfg.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}

	runtimeMu.Lock()
	initialized := runtimeInitialized
	runtimeMu.Unlock()
	if !initialized {
		if err := InitRuntime(""); err != nil {
			return nil, fmt.Errorf("ONNX runtime not initialized: %w", err)
		}
	}

	sd := &SileroDetector{
		cfg:         cfg,
		inputNames:  []string{"input", "state", "sr"},
		outputNames: []string{"output", "stateN"},
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, fmt.Errorf("failed to set graph optimization level: %w", err)
	}
	if err := options.SetIntraOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
	}
	if err := options.SetInterOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("failed to set inter-op threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		sd.inputNames,
		sd.outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sd.session = session
	return sd, nil
}

// Predict implements Detector. The frame must be PCM16LE at the configured
// sample rate; audio.FrameSamples per call is what the model was trained on.
func (sd *SileroDetector) Predict(frame []byte) (bool, float32, error) {
	prob, err := sd.infer(audio.BytesToFloat32(frame))
	if err != nil {
		return false, 0, err
	}
	return prob >= sd.cfg.Threshold, prob, nil
}

// HealthCheck implements Detector by scoring one frame of silence.
func (sd *SileroDetector) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := sd.infer(make([]float32, audio.FrameSamples))
	return err
}

// infer runs inference on normalized samples and returns the speech
// probability.
func (sd *SileroDetector) infer(samples []float32) (float32, error) {
	if sd == nil || sd.session == nil {
		return 0, fmt.Errorf("invalid nil detector")
	}

	// Prepend context from the previous iteration for continuity
	// (except on the first call).
	pcm := samples
	if sd.currSample > 0 {
		pcm = append(sd.ctx[:], samples...)
	}
	if len(samples) >= contextLen {
		copy(sd.ctx[:], samples[len(samples)-contextLen:])
	}
	sd.currSample += len(samples)

	inputShape := ort.NewShape(1, int64(len(pcm)))
	inputTensor, err := ort.NewTensor(inputShape, pcm)
	if err != nil {
		return 0, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	stateShape := ort.NewShape(2, 1, 128)
	stateTensor, err := ort.NewTensor(stateShape, sd.state[:])
	if err != nil {
		return 0, fmt.Errorf("failed to create state tensor: %w", err)
	}
	defer stateTensor.Destroy()

	srShape := ort.NewShape(1)
	srData := []int64{int64(sd.cfg.SampleRate)}
	srTensor, err := ort.NewTensor(srShape, srData)
	if err != nil {
		return 0, fmt.Errorf("failed to create sr tensor: %w", err)
	}
	defer srTensor.Destroy()

	outputShape := ort.NewShape(1, 1)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return 0, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	stateNShape := ort.NewShape(2, 1, 128)
	stateNTensor, err := ort.NewEmptyTensor[float32](stateNShape)
	if err != nil {
		return 0, fmt.Errorf("failed to create stateN tensor: %w", err)
	}
	defer stateNTensor.Destroy()

	inputs := []ort.Value{inputTensor, stateTensor, srTensor}
	outputs := []ort.Value{outputTensor, stateNTensor}

	if err := sd.session.Run(inputs, outputs); err != nil {
		return 0, fmt.Errorf("failed to run inference: %w", err)
	}

	copy(sd.state[:], stateNTensor.GetData())

	outputData := outputTensor.GetData()
	if len(outputData) == 0 {
		return 0, fmt.Errorf("empty output from inference")
	}
	return outputData[0], nil
}

// Reset clears the detector's RNN state for a new audio stream.
func (sd *SileroDetector) Reset() error {
	if sd == nil {
		return fmt.Errorf("invalid nil detector")
	}

	for i := range stateLen {
		sd.state[i] = 0
	}
	for i := range contextLen {
		sd.ctx[i] = 0
	}
	sd.currSample = 0

	return nil
}

// Close implements Detector, releasing the ONNX session.
func (sd *SileroDetector) Close() error {
	if sd == nil {
		return fmt.Errorf("invalid nil detector")
	}

	if sd.session != nil {
		if err := sd.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
		sd.session = nil
	}

	return nil
}

// Ensure SileroDetector implements Detector at compile time.
var _ Detector = (*SileroDetector)(nil)
