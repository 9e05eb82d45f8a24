package testhelpers

import (
	"github.com/myrjola/roteiros/internal/logging"
	"io"
	"log/slog"
)

// NewLogger creates a new debug level logger with the given log sink such as io.Discard.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, slog.LevelDebug, false)
}
