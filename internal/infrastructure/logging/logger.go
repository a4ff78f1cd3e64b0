// Package logging configures the session logger. revq writes structured
// logs to a file inside the workspace so the terminal stays reserved for
// the review screens.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// New builds a logger writing to w at the named level. Unknown or empty
// levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Open appends to the session log file at path and returns the logger
// together with the closer for the underlying file.
func Open(fs afero.Fs, path, level string) (zerolog.Logger, io.Closer, error) {
	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return New(f, level), f, nil
}

// Nop returns a logger that discards everything. Commands that run
// before a workspace exists use it, and so do tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
