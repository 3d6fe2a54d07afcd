package segment

import (
	"bytes"
	"log"
	"math"
	"time"

	"github.com/voicegw/voicegw/pkg/audio"
	"github.com/voicegw/voicegw/pkg/vad"
)

// DefaultSilenceTolerance is how much trailing silence an utterance absorbs
// before it is sealed, in seconds.
const DefaultSilenceTolerance = 1.5

// FrameDecision is the per-frame detector verdict, surfaced so the session
// can emit optional vad_result events.
type FrameDecision struct {
	IsSpeech    bool
	Probability float32
}

// StateMachine is the hysteretic speech/silence FSM. It owns the session's
// segment counter: ids are allocated when an utterance seals, whether or not
// the merger later consumes them.
//
// It is owned by the session's read goroutine and is not safe for concurrent
// use.
type StateMachine struct {
	det      vad.Detector
	hangover int

	inSpeech   bool
	silenceRun int
	buf        bytes.Buffer
	nextID     uint64
}

// NewStateMachine creates an FSM over det. silenceTolerance is the seconds
// of consecutive silence that seal an utterance; zero or negative means
// DefaultSilenceTolerance.
func NewStateMachine(det vad.Detector, silenceTolerance float64) *StateMachine {
	if silenceTolerance <= 0 {
		silenceTolerance = DefaultSilenceTolerance
	}
	return &StateMachine{
		det:      det,
		hangover: int(math.Ceil(silenceTolerance * audio.SampleRate / audio.FrameSamples)),
		nextID:   1,
	}
}

// Hangover returns the number of consecutive silence frames that seal an
// utterance.
func (sm *StateMachine) Hangover() int {
	return sm.hangover
}

// Process scores one frame and advances the state machine. It returns the
// sealed utterance when this frame closed one, else nil, plus the detector's
// verdict for the frame. Detector failures are logged and the frame is
// treated as silence.
func (sm *StateMachine) Process(frame []byte) (*Utterance, FrameDecision) {
	isSpeech, prob, err := sm.det.Predict(frame)
	if err != nil {
		log.Printf("[Segmenter] VAD error, treating frame as silence: %v", err)
		isSpeech, prob = false, 0
	}
	decision := FrameDecision{IsSpeech: isSpeech, Probability: prob}

	if !sm.inSpeech {
		if !isSpeech {
			return nil, decision
		}
		sm.inSpeech = true
		sm.silenceRun = 0
		sm.buf.Write(frame)
		return nil, decision
	}

	// In speech: the frame always joins the utterance, including the
	// silence tail counted toward the hangover.
	sm.buf.Write(frame)

	if isSpeech {
		sm.silenceRun = 0
		return nil, decision
	}

	sm.silenceRun++
	if sm.silenceRun < sm.hangover {
		return nil, decision
	}

	return sm.seal(), decision
}

// Drain seals and returns the in-progress utterance, if any. Called when the
// session closes while still in speech.
func (sm *StateMachine) Drain() *Utterance {
	if !sm.inSpeech || sm.buf.Len() == 0 {
		return nil
	}
	return sm.seal()
}

func (sm *StateMachine) seal() *Utterance {
	pcm := make([]byte, sm.buf.Len())
	copy(pcm, sm.buf.Bytes())

	u := &Utterance{
		SegmentID:       sm.nextID,
		PCM:             pcm,
		ReceivedAt:      time.Now(),
		TrailingSilence: sm.silenceRun,
	}
	sm.nextID++

	sm.inSpeech = false
	sm.silenceRun = 0
	sm.buf.Reset()

	return u
}
