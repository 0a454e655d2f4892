package storage

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"mariana-chat/errors"
)

// MaxVoiceNoteSize caps uploads at 10 MiB, matching the client recorder.
const MaxVoiceNoteSize = 10 << 20

// VoiceNoteStore writes uploaded voice notes to a local directory and hands
// back the URI they are served under. Message content for a voice note is
// that URI, nothing else; the blob itself never enters the message store.
type VoiceNoteStore struct {
	dir     string
	baseURL string
	log     *slog.Logger
}

func NewVoiceNoteStore(dir, baseURL string, log *slog.Logger) (*VoiceNoteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create voice notes directory: %w", err)
	}
	return &VoiceNoteStore{dir: dir, baseURL: baseURL, log: log}, nil
}

// Save persists one voice note and returns its serving URI.
// The format is sniffed from the blob content, not the upload headers:
// only mpeg audio and webm recordings are accepted. Empty blobs and blobs
// over MaxVoiceNoteSize are rejected before anything touches the disk.
func (s *VoiceNoteStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxVoiceNoteSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read voice note: %w", err)
	}
	if len(data) == 0 {
		return "", errors.ErrEmptyVoiceNote
	}
	if len(data) > MaxVoiceNoteSize {
		return "", errors.ErrVoiceNoteTooLarge
	}

	ext, err := voiceExtension(data)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("voice-%d-%09d%s", time.Now().UnixMilli(), rand.IntN(1_000_000_000), ext)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write voice note: %w", err)
	}

	s.log.Debug("Voice note stored", "file", name, "bytes", len(data))
	return s.baseURL + "/voice_notes/" + name, nil
}

// Dir returns the directory voice notes are written to, for static serving.
func (s *VoiceNoteStore) Dir() string {
	return s.dir
}

func voiceExtension(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("audio/mpeg"):
		return ".mp3", nil
	// Browser recorders produce webm containers that sniff as audio or video.
	case mt.Is("audio/webm"), mt.Is("video/webm"):
		return ".webm", nil
	}
	return "", errors.ErrInvalidVoiceFormat
}
