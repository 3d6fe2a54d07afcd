package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeWAV_Header(t *testing.T) {
	pcm := make([]byte, 3200)
	wav := EncodeWAV(pcm, SampleRate, 1)

	if len(wav) != wavHeaderSize+len(pcm) {
		t.Fatalf("Expected %d bytes, got %d", wavHeaderSize+len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("Missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("RIFF size = %d, want %d", got, 36+len(pcm))
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("Format code = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("Channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Errorf("Sample rate = %d, want %d", got, SampleRate)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != SampleRate*2 {
		t.Errorf("Byte rate = %d, want %d", got, SampleRate*2)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("Bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("Data size = %d, want %d", got, len(pcm))
	}
}

func TestWAVRoundTrip(t *testing.T) {
	pcm := make([]byte, 4800*2)
	for i := range pcm {
		pcm[i] = byte(i * 7 % 256)
	}

	wav := EncodeWAV(pcm, SampleRate, 1)
	decoded, rate, channels, err := DecodeWAV(wav)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != SampleRate {
		t.Errorf("Sample rate = %d, want %d", rate, SampleRate)
	}
	if channels != 1 {
		t.Errorf("Channels = %d, want 1", channels)
	}
	if !bytes.Equal(decoded, pcm) {
		t.Error("Decoded PCM differs from original")
	}
}

func TestDecodeWAV_Errors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"too short", make([]byte, 10)},
		{"bad magic", bytes.Repeat([]byte("x"), 64)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, err := DecodeWAV(tc.data); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	// Non-PCM format code.
	wav := EncodeWAV(make([]byte, 100), SampleRate, 1)
	binary.LittleEndian.PutUint16(wav[20:22], 3) // IEEE float
	if _, _, _, err := DecodeWAV(wav); err == nil {
		t.Error("Expected error for non-PCM format, got nil")
	}
}

func TestDecodeWAV_SkipsUnknownChunks(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	wav := EncodeWAV(pcm, SampleRate, 1)

	// Splice a LIST chunk between fmt and data.
	list := []byte("LIST")
	list = append(list, 4, 0, 0, 0) // size 4
	list = append(list, 'I', 'N', 'F', 'O')

	spliced := make([]byte, 0, len(wav)+len(list))
	spliced = append(spliced, wav[:36]...) // through end of fmt chunk
	spliced = append(spliced, list...)
	spliced = append(spliced, wav[36:]...)
	binary.LittleEndian.PutUint32(spliced[4:8], uint32(len(spliced)-8))

	decoded, _, _, err := DecodeWAV(spliced)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if !bytes.Equal(decoded, pcm) {
		t.Error("Decoded PCM differs from original")
	}
}
