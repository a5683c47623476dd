// Package obslog provides the process-wide structured logger.
package obslog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console-writer zerolog.Logger at the given level with
// structured fields so individual build phases are greppable.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything, used as a default for
// packages constructed without an explicit logger (e.g. in tests).
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
