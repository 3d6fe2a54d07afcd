package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFSSink_EmptyRoot(t *testing.T) {
	_, err := NewFSSink("")
	assert.Error(t, err)
}

func TestFSSink_WriteSegment(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSSink(root)
	require.NoError(t, err)
	assert.Equal(t, root, s.Root())

	wav := []byte("RIFF-fake-wav")
	path, err := s.WriteSegment("20260101_120000_client1", 7, wav)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "20260101_120000_client1", "segment_0007.wav"), path)

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wav, blob)
}

func TestFSSink_SessionDirectoriesIsolated(t *testing.T) {
	s, err := NewFSSink(t.TempDir())
	require.NoError(t, err)

	p1, err := s.WriteSegment("session_a", 1, []byte("a"))
	require.NoError(t, err)
	p2, err := s.WriteSegment("session_b", 1, []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestFSSink_RootCreatedLazily(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-yet")
	s, err := NewFSSink(root)
	require.NoError(t, err)

	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr))

	_, err = s.WriteSegment("sess", 1, []byte("x"))
	require.NoError(t, err)
	_, statErr = os.Stat(root)
	assert.NoError(t, statErr)
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()

	path, err := s.WriteSegment("sess", 2, []byte("pcm"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())

	blob, ok := s.Segment(path)
	require.True(t, ok)
	assert.Equal(t, []byte("pcm"), blob)

	// Stored blob is a copy.
	src := []byte("orig")
	path, err = s.WriteSegment("sess", 3, src)
	require.NoError(t, err)
	src[0] = 'X'
	blob, _ = s.Segment(path)
	assert.Equal(t, []byte("orig"), blob)
}

func TestMemorySink_Err(t *testing.T) {
	s := NewMemorySink()
	s.Err = fmt.Errorf("boom")

	_, err := s.WriteSegment("sess", 1, []byte("x"))
	assert.Error(t, err)
	assert.Equal(t, 0, s.Count())
}
