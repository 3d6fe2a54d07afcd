// Package segment turns per-frame voice-activity decisions into utterance
// segments worth transcribing.
//
// StateMachine applies hysteresis over frame classifications so that short
// pauses stay inside one utterance. Merger holds utterances that came out too
// short and joins them with their immediate successor within a bounded time
// window, so fillers and clipped tails don't reach the transcriber on their
// own.
package segment

import (
	"time"

	"github.com/voicegw/voicegw/pkg/audio"
)

// Utterance is a sealed contiguous speech region. SegmentID is monotonic per
// session starting at 1; merged utterances keep the earlier id, so clients
// can observe gaps.
type Utterance struct {
	SegmentID  uint64
	PCM        []byte
	ReceivedAt time.Time

	// TrailingSilence is the number of hangover frames at the tail of PCM.
	// The tail is kept in the audio sent to the transcriber but does not
	// count toward the speech duration that drives merge and skip
	// decisions.
	TrailingSilence int
}

// Samples returns the number of PCM16 samples in the utterance.
func (u Utterance) Samples() int {
	return len(u.PCM) / audio.BytesPerSample
}

// Duration returns the utterance length in seconds at the gateway sample
// rate, hangover tail included.
func (u Utterance) Duration() float64 {
	return audio.DurationSeconds(u.PCM)
}

// SpeechSamples returns the sample count excluding the trailing hangover
// silence.
func (u Utterance) SpeechSamples() int {
	n := u.Samples() - u.TrailingSilence*audio.FrameSamples
	if n < 0 {
		return 0
	}
	return n
}

// SpeechDuration returns the seconds of audio up to the start of the
// hangover tail.
func (u Utterance) SpeechDuration() float64 {
	return float64(u.SpeechSamples()) / float64(audio.SampleRate)
}
