package audio

import (
	"bytes"
	"testing"
)

func TestFrameSplitter_ExactMultiple(t *testing.T) {
	fs := NewFrameSplitter()

	data := make([]byte, 8*FrameBytes)
	for i := range data {
		data[i] = byte(i % 251)
	}

	frames := fs.Push(data)
	if len(frames) != 8 {
		t.Fatalf("Expected 8 frames, got %d", len(frames))
	}
	if fs.Buffered() != 0 {
		t.Errorf("Expected no leftover, got %d bytes", fs.Buffered())
	}
	for i, frame := range frames {
		if len(frame) != FrameBytes {
			t.Fatalf("Frame %d has %d bytes, want %d", i, len(frame), FrameBytes)
		}
		if !bytes.Equal(frame, data[i*FrameBytes:(i+1)*FrameBytes]) {
			t.Errorf("Frame %d content mismatch", i)
		}
	}
}

func TestFrameSplitter_CarriesRemainder(t *testing.T) {
	fs := NewFrameSplitter()

	frames := fs.Push(make([]byte, 1500))
	if len(frames) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(frames))
	}
	if fs.Buffered() != 1500-FrameBytes {
		t.Errorf("Expected %d leftover bytes, got %d", 1500-FrameBytes, fs.Buffered())
	}

	// Completing the partial frame should yield exactly one more.
	frames = fs.Push(make([]byte, FrameBytes-fs.Buffered()))
	if len(frames) != 1 {
		t.Fatalf("Expected 1 frame after completing remainder, got %d", len(frames))
	}
	if fs.Buffered() != 0 {
		t.Errorf("Expected empty buffer, got %d bytes", fs.Buffered())
	}
}

func TestFrameSplitter_SmallPushes(t *testing.T) {
	fs := NewFrameSplitter()

	total := 0
	frameCount := 0
	for i := 0; i < 50; i++ {
		frames := fs.Push(make([]byte, 100))
		total += 100
		frameCount += len(frames)
	}

	if want := total / FrameBytes; frameCount != want {
		t.Errorf("Expected %d frames from %d bytes, got %d", want, total, frameCount)
	}
	if fs.Buffered() != total%FrameBytes {
		t.Errorf("Expected %d leftover bytes, got %d", total%FrameBytes, fs.Buffered())
	}
}

func TestFrameSplitter_NeverDropsBytes(t *testing.T) {
	fs := NewFrameSplitter()

	var input []byte
	var output []byte
	next := byte(0)

	// Uneven chunk sizes straddling frame boundaries.
	for _, size := range []int{1, 1023, 1024, 1025, 37, 2048, 511, 513, 3000} {
		chunk := make([]byte, size)
		for i := range chunk {
			chunk[i] = next
			next++
		}
		input = append(input, chunk...)
		for _, frame := range fs.Push(chunk) {
			output = append(output, frame...)
		}
	}

	if !bytes.Equal(output, input[:len(output)]) {
		t.Error("Emitted frames do not match input prefix")
	}
	if len(output)+fs.Buffered() != len(input) {
		t.Errorf("Bytes lost: emitted %d + buffered %d != input %d",
			len(output), fs.Buffered(), len(input))
	}
}

func TestFrameSplitter_EmptyPush(t *testing.T) {
	fs := NewFrameSplitter()

	if frames := fs.Push(nil); frames != nil {
		t.Errorf("Expected nil frames for empty push, got %d", len(frames))
	}
	if frames := fs.Push([]byte{}); frames != nil {
		t.Errorf("Expected nil frames for zero-length push, got %d", len(frames))
	}
}

func TestFrameSplitter_Reset(t *testing.T) {
	fs := NewFrameSplitter()

	fs.Push(make([]byte, 500))
	if fs.Buffered() != 500 {
		t.Fatalf("Expected 500 buffered bytes, got %d", fs.Buffered())
	}

	fs.Reset()
	if fs.Buffered() != 0 {
		t.Errorf("Expected empty buffer after reset, got %d", fs.Buffered())
	}
}
