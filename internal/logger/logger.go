package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Init configures the package logger. level can be "debug", "info", "warn"
// or "error"; unknown values fall back to info.
func Init(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// OpenFile creates (or appends to) the log file at path and points the logger
// at it. The alt-screen owns the terminal, so the UI never logs to stdout.
func OpenFile(level, path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	Init(level, f)
	return f, nil
}

// Console logs human-friendly lines to w. The subcommands log to stderr so
// stdout stays clean for their output.
func Console(level string, w io.Writer) {
	Init(level, zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true})
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
