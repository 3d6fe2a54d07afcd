// Package audio provides PCM utilities for the transcription gateway.
//
// FrameSplitter slices an unbounded PCM16LE byte stream into the fixed-size
// windows the VAD consumes. EncodeWAV/DecodeWAV cover the in-memory RIFF
// container expected by the transcription API and the on-disk sink.
//
// Usage:
//
//	fs := audio.NewFrameSplitter()
//	for _, frame := range fs.Push(chunk) {
//	    // frame is exactly audio.FrameBytes bytes
//	}
package audio

const (
	// SampleRate is the only sampling rate the gateway accepts.
	SampleRate = 16000

	// BytesPerSample for 16-bit PCM.
	BytesPerSample = 2

	// FrameSamples is the VAD window size in samples (32ms at 16kHz).
	FrameSamples = 512

	// FrameBytes is the VAD window size in bytes.
	FrameBytes = FrameSamples * BytesPerSample
)

// FrameSplitter accumulates raw PCM bytes and yields complete fixed-size
// frames, carrying any trailing remainder over to the next Push. It is owned
// by the session's read goroutine and is not safe for concurrent use.
type FrameSplitter struct {
	buf []byte
}

// NewFrameSplitter creates an empty splitter.
func NewFrameSplitter() *FrameSplitter {
	return &FrameSplitter{
		buf: make([]byte, 0, 4*FrameBytes),
	}
}

// Push appends data and returns every complete frame now available, in input
// order. Each frame is an independent copy of FrameBytes bytes; leftover
// bytes below FrameBytes stay buffered. Returns nil when no frame completed.
func (fs *FrameSplitter) Push(data []byte) [][]byte {
	if len(data) > 0 {
		fs.buf = append(fs.buf, data...)
	}

	n := len(fs.buf) / FrameBytes
	if n == 0 {
		return nil
	}

	frames := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		frame := make([]byte, FrameBytes)
		copy(frame, fs.buf[i*FrameBytes:(i+1)*FrameBytes])
		frames = append(frames, frame)
	}

	// Shift the remainder to the front so the backing array is reused.
	rest := len(fs.buf) - n*FrameBytes
	copy(fs.buf, fs.buf[n*FrameBytes:])
	fs.buf = fs.buf[:rest]

	return frames
}

// Buffered returns how many leftover bytes are waiting for the next frame.
func (fs *FrameSplitter) Buffered() int {
	return len(fs.buf)
}

// Reset discards any buffered remainder.
func (fs *FrameSplitter) Reset() {
	fs.buf = fs.buf[:0]
}
