package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Output goes to stderr so command output on
// stdout stays clean.
func New(environment string, verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, environment, verbose)
}

func NewWithWriter(w io.Writer, environment string, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	level := zerolog.WarnLevel
	switch {
	case verbose:
		level = zerolog.DebugLevel
	case environment == "production":
		level = zerolog.ErrorLevel
	}

	return zerolog.New(output).Level(level).With().
		Timestamp().
		Str("env", environment).
		Logger()
}
