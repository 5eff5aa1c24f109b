// Package logging constructs the zerolog logger used across volley.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/volleyload/volley/internal/constants"
)

// New builds the process logger. In TUI mode the terminal belongs to
// the dashboard, so without a log file everything is discarded. The
// returned closer is nil when no file was opened.
func New(logFile string, headless bool) (zerolog.Logger, io.Closer, error) {
	var w io.Writer

	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissionDefault)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		return zerolog.New(f).With().Timestamp().Logger(), f, nil
	case headless:
		w = os.Stderr
	default:
		w = io.Discard
	}

	return zerolog.New(w).With().Timestamp().Logger(), nil, nil
}
