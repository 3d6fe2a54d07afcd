package segment

import (
	"sync"
	"time"
)

const (
	// DefaultMinMergeDuration is the length below which an utterance is
	// held for merging with its successor.
	DefaultMinMergeDuration = 800 * time.Millisecond

	// DefaultMergeTimeout bounds how long a short utterance is held before
	// it is flushed on its own.
	DefaultMergeTimeout = 2 * time.Second
)

// MergerConfig holds the merge window parameters.
type MergerConfig struct {
	// MinMergeDuration: utterances shorter than this are held.
	MinMergeDuration time.Duration

	// MergeTimeout: maximum wall-clock hold before a flush.
	MergeTimeout time.Duration
}

// DefaultMergerConfig returns the production merge window.
func DefaultMergerConfig() MergerConfig {
	return MergerConfig{
		MinMergeDuration: DefaultMinMergeDuration,
		MergeTimeout:     DefaultMergeTimeout,
	}
}

// ReadyFunc receives a segment that is done merging. It runs synchronously
// under the merger's lock and must not call back into the merger.
type ReadyFunc func(u Utterance) error

// ErrorFunc receives errors returned by ReadyFunc. The merger's state is
// already reset when it runs.
type ErrorFunc func(err error)

// Merger holds at most one short utterance per session and either joins it
// to its immediate successor or flushes it when the merge window closes.
//
// The pending segment and its timer are one owned resource: replacing or
// clearing the pending segment always stops the previous timer, and a timer
// callback that lost the race to a concurrent replacement is a no-op.
type Merger struct {
	cfg     MergerConfig
	onReady ReadyFunc
	onError ErrorFunc

	mu      sync.Mutex
	pending *Utterance
	timer   *time.Timer
	gen     uint64
	closed  bool
}

// NewMerger creates a merger delivering finished segments to onReady and
// delivery failures to onError. Zero config fields take the defaults.
func NewMerger(cfg MergerConfig, onReady ReadyFunc, onError ErrorFunc) *Merger {
	if cfg.MinMergeDuration <= 0 {
		cfg.MinMergeDuration = DefaultMinMergeDuration
	}
	if cfg.MergeTimeout <= 0 {
		cfg.MergeTimeout = DefaultMergeTimeout
	}
	return &Merger{
		cfg:     cfg,
		onReady: onReady,
		onError: onError,
	}
}

// Offer hands a sealed utterance to the merger. Long utterances are
// delivered immediately; short ones are held for up to MergeTimeout. When a
// successor arrives inside the window, the two are concatenated and the
// merged segment keeps the earlier SegmentID and ReceivedAt.
func (m *Merger) Offer(u Utterance) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	if m.pending != nil {
		gap := time.Since(m.pending.ReceivedAt)
		if m.durationOf(*m.pending) < m.cfg.MinMergeDuration && gap < m.cfg.MergeTimeout {
			m.stopTimerLocked()
			merged := Utterance{
				SegmentID:       m.pending.SegmentID,
				PCM:             append(append([]byte{}, m.pending.PCM...), u.PCM...),
				ReceivedAt:      m.pending.ReceivedAt,
				TrailingSilence: u.TrailingSilence,
			}
			m.pending = nil

			// A merged segment can still be short; it is re-held with
			// a fresh timer.
			if m.durationOf(merged) < m.cfg.MinMergeDuration {
				m.holdLocked(merged)
				return
			}
			m.deliverLocked(merged)
			return
		}

		// Non-merge-eligible successor: the pending segment goes out
		// first, then u is considered on its own.
		m.flushPendingLocked()
	}

	if m.durationOf(u) < m.cfg.MinMergeDuration {
		m.holdLocked(u)
		return
	}
	m.deliverLocked(u)
}

// Flush delivers the pending segment immediately, if any. Idempotent; called
// from the disconnect path before the session is removed.
func (m *Merger) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushPendingLocked()
}

// Close flushes and permanently stops the merger. Offers and timer firings
// after Close are no-ops.
func (m *Merger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushPendingLocked()
	m.closed = true
}

// Reset discards the pending segment without delivering it.
func (m *Merger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.pending = nil
}

// HasPending reports whether a segment is currently held.
func (m *Merger) HasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// PendingID returns the held segment's id, or 0 when nothing is held.
func (m *Merger) PendingID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return 0
	}
	return m.pending.SegmentID
}

// durationOf measures the speech portion only: the hangover tail that sealed
// an utterance would otherwise push every segment past the merge threshold.
func (m *Merger) durationOf(u Utterance) time.Duration {
	return time.Duration(u.SpeechDuration() * float64(time.Second))
}

// holdLocked parks u as the pending segment and arms its flush timer. The
// generation counter invalidates callbacks from timers that were stopped
// after they already fired.
func (m *Merger) holdLocked(u Utterance) {
	m.stopTimerLocked()
	m.pending = &u
	m.gen++
	gen := m.gen

	m.timer = time.AfterFunc(m.cfg.MergeTimeout, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed || m.pending == nil || m.gen != gen {
			return
		}
		m.flushPendingLocked()
	})
}

// flushPendingLocked delivers the pending segment, if any.
func (m *Merger) flushPendingLocked() {
	if m.pending == nil {
		return
	}
	u := *m.pending
	m.pending = nil
	m.stopTimerLocked()
	m.deliverLocked(u)
}

// deliverLocked runs the ready callback. A callback failure resets merger
// state and is routed to onError; it never corrupts the pending slot.
func (m *Merger) deliverLocked(u Utterance) {
	if m.onReady == nil {
		return
	}
	if err := m.onReady(u); err != nil {
		m.stopTimerLocked()
		m.pending = nil
		if m.onError != nil {
			m.onError(err)
		}
	}
}

func (m *Merger) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
