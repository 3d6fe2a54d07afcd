package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable FromEnv reads so the host environment can't
// leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDR", "TESTING", "OPENAI_API_KEY", "TRANSCRIBE_LANGUAGE",
		"VAD_SILENCE_TOLERANCE", "VAD_THRESHOLD", "VAD_MODEL_PATH",
		"VAD_EMIT_RESULTS", "SEGMENTS_DIR", "DATABASE_URL", "TRACE_EXPORTER",
	} {
		t.Setenv(key, "")
	}
	// t.Setenv leaves the variable set to ""; SEGMENTS_DIR distinguishes
	// unset from empty, so reflect that for the default-path tests.
	t.Setenv("SEGMENTS_DIR", "audio_files")
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TESTING", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.Testing)
	assert.Equal(t, "ja", cfg.Language)
	assert.InDelta(t, 1.5, cfg.SilenceTolerance, 1e-9)
	assert.InDelta(t, 0.5, float64(cfg.VADThreshold), 1e-6)
	assert.Equal(t, "models/silero_vad.onnx", cfg.VADModelPath)
	assert.False(t, cfg.EmitVADResults)
	assert.Equal(t, "audio_files", cfg.SegmentsDir)
	assert.Equal(t, "none", cfg.TraceExporter)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TRANSCRIBE_LANGUAGE", "en")
	t.Setenv("VAD_SILENCE_TOLERANCE", "0.8")
	t.Setenv("VAD_THRESHOLD", "0.7")
	t.Setenv("VAD_MODEL_PATH", "/opt/models/vad.onnx")
	t.Setenv("VAD_EMIT_RESULTS", "true")
	t.Setenv("SEGMENTS_DIR", "/var/segments")
	t.Setenv("DATABASE_URL", "postgres://localhost/voicegw")
	t.Setenv("TRACE_EXPORTER", "stdout")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.False(t, cfg.Testing)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "en", cfg.Language)
	assert.InDelta(t, 0.8, cfg.SilenceTolerance, 1e-9)
	assert.InDelta(t, 0.7, float64(cfg.VADThreshold), 1e-6)
	assert.Equal(t, "/opt/models/vad.onnx", cfg.VADModelPath)
	assert.True(t, cfg.EmitVADResults)
	assert.Equal(t, "/var/segments", cfg.SegmentsDir)
	assert.Equal(t, "postgres://localhost/voicegw", cfg.DatabaseURL)
	assert.Equal(t, "stdout", cfg.TraceExporter)
}

func TestFromEnv_EmptySegmentsDirDisablesSink(t *testing.T) {
	clearEnv(t)
	t.Setenv("TESTING", "true")
	t.Setenv("SEGMENTS_DIR", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.SegmentsDir)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"silence tolerance not a number", "VAD_SILENCE_TOLERANCE", "fast"},
		{"silence tolerance zero", "VAD_SILENCE_TOLERANCE", "0"},
		{"silence tolerance negative", "VAD_SILENCE_TOLERANCE", "-1"},
		{"threshold not a number", "VAD_THRESHOLD", "high"},
		{"threshold above one", "VAD_THRESHOLD", "1.5"},
		{"threshold negative", "VAD_THRESHOLD", "-0.1"},
		{"unknown trace exporter", "TRACE_EXPORTER", "jaeger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TESTING", "true")
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidate_APIKeyRequiredOutsideTesting(t *testing.T) {
	cfg := Default()
	cfg.Testing = false
	cfg.OpenAIAPIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.Testing = true
	assert.NoError(t, cfg.Validate())

	cfg.Testing = false
	cfg.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Addr(t *testing.T) {
	cfg := Default()
	cfg.Testing = true
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())
}
