package internal

import (
	"io"
	"log/slog"
)

// DiscardLogger returns a logger that drops everything, for CLI tools and
// tests that only care about their own output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
