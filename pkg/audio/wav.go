package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeaderSize is the fixed size of the canonical 44-byte RIFF header
// (RIFF + fmt + data chunk headers, no extra chunks).
const wavHeaderSize = 44

// EncodeWAV wraps raw PCM16LE samples in a RIFF/WAVE container with a single
// fmt and data chunk. The transcription API and the on-disk sink both expect
// this layout.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(pcm))

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	// fmt sub-chunk
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))

	byteRate := uint32(sampleRate * channels * BytesPerSample)
	binary.Write(&buf, binary.LittleEndian, byteRate)

	blockAlign := uint16(channels * BytesPerSample)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	// data sub-chunk
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// DecodeWAV extracts the PCM payload and format from a RIFF/WAVE blob.
// Only uncompressed 16-bit PCM is accepted. Chunks other than fmt and data
// are skipped, so files with LIST/INFO chunks still decode.
func DecodeWAV(data []byte) (pcm []byte, sampleRate, channels int, err error) {
	if len(data) < wavHeaderSize {
		return nil, 0, 0, fmt.Errorf("wav: %d bytes is too short for a header", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("wav: missing RIFF/WAVE magic")
	}

	var haveFmt bool
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, 0, 0, fmt.Errorf("wav: chunk %q overruns input", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, 0, fmt.Errorf("wav: fmt chunk too small (%d bytes)", size)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, 0, 0, fmt.Errorf("wav: unsupported format code %d (want PCM)", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bits != 16 {
				return nil, 0, 0, fmt.Errorf("wav: unsupported bit depth %d (want 16)", bits)
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, 0, 0, fmt.Errorf("wav: data chunk before fmt chunk")
			}
			return data[body : body+size], sampleRate, channels, nil
		}

		// Chunk sizes are word-aligned.
		if size%2 == 1 {
			size++
		}
		pos = body + size
	}

	return nil, 0, 0, fmt.Errorf("wav: no data chunk found")
}
