package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mariana-chat/errors"
	"mariana-chat/internal"
)

// id3Blob returns bytes that sniff as mpeg audio: an ID3v2 header plus
// padding standing in for frames.
func id3Blob(size int) []byte {
	blob := make([]byte, size)
	copy(blob, []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, 0})
	return blob
}

func newTestStore(t *testing.T) *VoiceNoteStore {
	t.Helper()
	store, err := NewVoiceNoteStore(t.TempDir(), "http://localhost:8080", internal.DiscardLogger())
	require.NoError(t, err)
	return store
}

func TestVoiceNoteStore_Save_MP3(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	uri, err := store.Save(bytes.NewReader(id3Blob(1024)))
	req.NoError(err)
	req.True(strings.HasPrefix(uri, "http://localhost:8080/voice_notes/voice-"))
	req.True(strings.HasSuffix(uri, ".mp3"))

	// The blob must exist on disk under the served name.
	name := uri[strings.LastIndex(uri, "/")+1:]
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	req.NoError(err)
	req.Len(data, 1024)
}

func TestVoiceNoteStore_Save_Unique_Names(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	first, err := store.Save(bytes.NewReader(id3Blob(64)))
	req.NoError(err)
	second, err := store.Save(bytes.NewReader(id3Blob(64)))
	req.NoError(err)
	req.NotEqual(first, second)
}

func TestVoiceNoteStore_Rejects_Empty(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	_, err := store.Save(bytes.NewReader(nil))
	req.ErrorIs(err, errors.ErrEmptyVoiceNote)
}

func TestVoiceNoteStore_Rejects_Oversized(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	_, err := store.Save(bytes.NewReader(id3Blob(MaxVoiceNoteSize + 1)))
	req.ErrorIs(err, errors.ErrVoiceNoteTooLarge)
}

func TestVoiceNoteStore_Rejects_Unknown_Format(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("definitely not audio"))
	req.ErrorIs(err, errors.ErrInvalidVoiceFormat)

	// Nothing may be written for a rejected blob.
	entries, readErr := os.ReadDir(store.Dir())
	req.NoError(readErr)
	req.Empty(entries)
}
