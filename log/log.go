package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log wraps a zerolog.Logger so callers can use it directly while still
// being able to pull out the underlying logger for dependency injection.
type Log struct {
	zerolog.Logger
}

// New creates a logger writing to stdout at the given level.
// Unknown levels fall back to info. Pretty enables human-readable console output.
func New(level string, pretty bool) Log {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.Level(lvl).With().Timestamp().Logger()
	return Log{Logger: logger}
}
