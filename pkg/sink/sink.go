// Package sink persists completed audio segments. Archival is best-effort:
// the dispatcher logs sink failures and still transcribes the segment.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink writes one finished segment. Implementations must be safe for
// concurrent use; sessions share a single sink.
type Sink interface {
	// WriteSegment stores a WAV blob under the session's directory and
	// returns the stored path.
	WriteSegment(sessionDir string, segmentID uint64, wav []byte) (string, error)
}

// FSSink writes segments to the local filesystem as
// {root}/{sessionDir}/segment_{NNNN}.wav.
type FSSink struct {
	root string
}

// NewFSSink creates a sink rooted at dir. The root is created lazily on the
// first write.
func NewFSSink(dir string) (*FSSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("sink: root directory must not be empty")
	}
	return &FSSink{root: dir}, nil
}

// Root returns the sink's base directory.
func (s *FSSink) Root() string {
	return s.root
}

// WriteSegment implements Sink.
func (s *FSSink) WriteSegment(sessionDir string, segmentID uint64, wav []byte) (string, error) {
	dir := filepath.Join(s.root, sessionDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("sink: create session directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("segment_%04d.wav", segmentID))
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return "", fmt.Errorf("sink: write segment: %w", err)
	}
	return path, nil
}

// MemorySink keeps segments in memory for tests.
type MemorySink struct {
	mu       sync.Mutex
	segments map[string][]byte

	// Err, when set, is returned by every write.
	Err error
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{segments: make(map[string][]byte)}
}

// WriteSegment implements Sink.
func (s *MemorySink) WriteSegment(sessionDir string, segmentID uint64, wav []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	path := filepath.Join(sessionDir, fmt.Sprintf("segment_%04d.wav", segmentID))
	blob := make([]byte, len(wav))
	copy(blob, wav)
	s.segments[path] = blob
	return path, nil
}

// Segment returns the stored blob for a path, if any.
func (s *MemorySink) Segment(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.segments[path]
	return blob, ok
}

// Count returns the number of stored segments.
func (s *MemorySink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.segments)
}

var (
	_ Sink = (*FSSink)(nil)
	_ Sink = (*MemorySink)(nil)
)
