package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	Host          string `env:"HOST,default=0.0.0.0"`
	Port          int    `env:"PORT,required=true"`
	DatabasePath  string `env:"DATABASE_PATH,required=true"`
	JWTSecret     string `env:"JWT_SECRET,required=true"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`
	VoiceNotesDir string `env:"VOICE_NOTES_DIR,default=voice_notes"`
	SearchIndex   string `env:"SEARCH_INDEX_DIR,default=search_index"`
	// Comma-separated word list; empty disables content screening.
	CensoredWords []string `env:"CENSORED_WORDS"`

	SendBufferSize  int           `env:"SEND_BUFFER_SIZE,default=256"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT,default=60s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	PingInterval    time.Duration `env:"PING_INTERVAL,default=30s"`
	PersistTimeout  time.Duration `env:"PERSIST_TIMEOUT,default=5s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}

// ParseLevel maps the LOG_LEVEL variable to a slog level.
func ParseLevel(str string) (slog.Level, error) {
	switch strings.ToUpper(str) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown LOG_LEVEL %q", str)
}
