// Package dispatch turns sealed segments into outbound transcription events.
//
// Each segment is transcribed on its own goroutine behind a semaphore, so a
// slow provider never blocks the audio path. Completions can arrive out of
// order; a reordering buffer holds them until every earlier segment's
// outcome has been emitted, keeping client-visible events in segment_id
// order.
package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/voicegw/voicegw/pkg/asr"
	"github.com/voicegw/voicegw/pkg/audio"
	"github.com/voicegw/voicegw/pkg/gateway/events"
	"github.com/voicegw/voicegw/pkg/segment"
	"github.com/voicegw/voicegw/pkg/sink"
	"github.com/voicegw/voicegw/pkg/trace"
)

const (
	// MinAudioSeconds is the shortest speech worth sending to the
	// transcriber.
	MinAudioSeconds = 0.3

	// MinAudioSamples is MinAudioSeconds at the gateway sample rate.
	MinAudioSamples = int(MinAudioSeconds * audio.SampleRate)

	// DefaultWorkers bounds concurrent transcriptions per session.
	DefaultWorkers = 4

	// DefaultConfidence is reported when the provider supplies none.
	DefaultConfidence = 0.95
)

// EmitFunc receives ordered outbound events. It must not block for long; the
// session's event channel is the intended target.
type EmitFunc func(msg events.ServerMessage)

// Config holds the per-session dispatcher parameters.
type Config struct {
	// ClientID stamps result ids ("{client_id}_{segment_id}").
	ClientID string

	// SessionDir is the sink subdirectory for this session.
	SessionDir string

	// Workers bounds concurrent transcriber calls; zero means
	// DefaultWorkers.
	Workers int
}

// Dispatcher owns the transcription fan-out for one session.
type Dispatcher struct {
	cfg  Config
	tr   asr.Transcriber
	snk  sink.Sink
	emit EmitFunc

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup

	mu     sync.Mutex
	buf    *reorderBuffer
	seq    uint64
	closed bool
}

// New creates a dispatcher delivering ordered events through emit. snk may
// be nil to disable archival.
func New(cfg Config, tr asr.Transcriber, snk sink.Sink, emit EmitFunc) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		cfg:    cfg,
		tr:     tr,
		snk:    snk,
		emit:   emit,
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, cfg.Workers),
		buf:    newReorderBuffer(),
	}
}

// Submit accepts a sealed segment for transcription with the model the
// session had at this moment; later model changes do not affect it. Too-short
// segments produce a transcription_skipped event without touching the
// transcriber. Returns an error only when the dispatcher is closed.
func (d *Dispatcher) Submit(u segment.Utterance, model asr.Model) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return fmt.Errorf("dispatch: dispatcher closed")
	}
	d.seq++
	slot := d.seq
	d.mu.Unlock()

	if u.SpeechSamples() < MinAudioSamples {
		log.Printf("[Dispatcher] [%s] segment %d too short (%.3fs), skipping",
			d.cfg.ClientID, u.SegmentID, u.SpeechDuration())
		d.complete(slot, events.NewTranscriptionSkipped(u.SegmentID, events.SkipReasonTooShort, u.SpeechDuration()))
		return nil
	}

	wav := audio.EncodeWAV(u.PCM, audio.SampleRate, 1)

	if d.snk != nil {
		if path, err := d.snk.WriteSegment(d.cfg.SessionDir, u.SegmentID, wav); err != nil {
			// Archival is best-effort; the segment is still transcribed.
			log.Printf("[Dispatcher] [%s] segment %d sink write failed: %v",
				d.cfg.ClientID, u.SegmentID, err)
		} else {
			log.Printf("[Dispatcher] [%s] segment %d archived to %s", d.cfg.ClientID, u.SegmentID, path)
		}
	}

	d.wg.Add(1)
	go d.transcribe(slot, u, model, wav)
	return nil
}

// transcribe runs one provider call and files its outcome into the
// reordering buffer.
func (d *Dispatcher) transcribe(slot uint64, u segment.Utterance, model asr.Model, wav []byte) {
	defer d.wg.Done()

	select {
	case d.sem <- struct{}{}:
		defer func() { <-d.sem }()
	case <-d.ctx.Done():
		// Scheduled but never started; the session is gone.
		return
	}

	taskID := uuid.New().String()[:8]

	// A call that reached the provider is allowed to finish even if the
	// session disconnects; its outcome is discarded in complete().
	ctx, span := trace.StartTranscribeSpan(context.WithoutCancel(d.ctx), d.tr.Name(), string(model), taskID, u.SegmentID)
	defer span.End()

	log.Printf("[Dispatcher] [%s] segment %d task %s: transcribing %.3fs with %s",
		d.cfg.ClientID, u.SegmentID, taskID, u.Duration(), model)

	res, err := d.tr.Transcribe(ctx, bytes.NewReader(wav), model)
	if err != nil {
		trace.RecordError(span, err)
		log.Printf("[Dispatcher] [%s] segment %d task %s failed: %v",
			d.cfg.ClientID, u.SegmentID, taskID, err)
		d.complete(slot, events.NewTranscriptionError(u.SegmentID, err.Error(), model))
		return
	}

	confidence := res.Confidence
	if confidence < 0 {
		confidence = DefaultConfidence
	}
	d.complete(slot, events.NewTranscriptionResult(d.cfg.ClientID, u.SegmentID, res.Text, confidence, model))
}

// complete releases every outcome the buffer can now emit in order. Outcomes
// arriving after Close are discarded.
//
// The released batch is emitted under the mutex: two completions racing here
// could otherwise interleave their batches and put events out of segment_id
// order. emit is non-blocking, so holding the lock across it is safe.
func (d *Dispatcher) complete(slot uint64, msg events.ServerMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for _, m := range d.buf.complete(slot, msg) {
		d.emit(m)
	}
}

// Pending returns how many outcomes are parked waiting for an earlier
// segment.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.waiting()
}

// Close stops the dispatcher: tasks that have not yet reached the provider
// are cancelled, running calls finish on their own and their outcomes are
// discarded. Idempotent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
}

// Wait blocks until every in-flight task has returned. Used by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
