// Package logger builds the zerolog logger shared by the CLI and the server.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn, error, disabled
	Pretty bool      // console output instead of JSON
	Out    io.Writer // defaults to stderr so stdout stays clean for reports
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to info.
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a new structured logger
func New(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Logger()
}

// SetGlobalLogger sets the package-level logger
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
