package vad

import "testing"

func TestDetectorConfigIsValid(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DetectorConfig
		wantErr bool
	}{
		{
			name: "valid config 16kHz",
			cfg: DetectorConfig{
				ModelPath:  "/path/to/model.onnx",
				SampleRate: 16000,
			},
			wantErr: false,
		},
		{
			name: "valid config 8kHz",
			cfg: DetectorConfig{
				ModelPath:  "/path/to/model.onnx",
				SampleRate: 8000,
			},
			wantErr: false,
		},
		{
			name: "valid config with explicit threshold",
			cfg: DetectorConfig{
				ModelPath:  "/path/to/model.onnx",
				SampleRate: 16000,
				Threshold:  0.6,
			},
			wantErr: false,
		},
		{
			name: "empty model path",
			cfg: DetectorConfig{
				ModelPath:  "",
				SampleRate: 16000,
			},
			wantErr: true,
		},
		{
			name: "invalid sample rate",
			cfg: DetectorConfig{
				ModelPath:  "/path/to/model.onnx",
				SampleRate: 44100,
			},
			wantErr: true,
		},
		{
			name: "threshold out of range",
			cfg: DetectorConfig{
				ModelPath:  "/path/to/model.onnx",
				SampleRate: 16000,
				Threshold:  1.5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.IsValid()
			if (err != nil) != tt.wantErr {
				t.Errorf("IsValid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
