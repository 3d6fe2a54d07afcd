package audio

import "encoding/binary"

// BytesToInt16 converts PCM16LE bytes to int16 samples. A trailing odd byte
// is ignored; callers that frame their input never produce one.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	return samples
}

// BytesToFloat32 converts PCM16LE bytes to normalized float32 samples in
// [-1, 1), the representation the VAD model consumes.
func BytesToFloat32(data []byte) []float32 {
	samples := make([]float32, len(data)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:i*2+2]))) / 32768.0
	}
	return samples
}

// Int16ToBytes converts int16 samples back to PCM16LE bytes.
func Int16ToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:i*2+2], uint16(s))
	}
	return data
}

// DurationSeconds returns the playback duration of a PCM16LE mono byte
// sequence at the gateway sample rate.
func DurationSeconds(pcm []byte) float64 {
	return float64(len(pcm)/BytesPerSample) / float64(SampleRate)
}
