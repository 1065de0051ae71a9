// Package logging builds the zerolog loggers used by the CLI and the sandbox.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/go-social-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger writing to w (stderr when nil) at the configured level.
// Format "json" emits structured lines, anything else a human console format.
func New(cfg config.EnvConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if !strings.EqualFold(cfg.GetLogFormat(), "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("app", cfg.GetAppName()).Logger()
}

// SetGlobal makes l the logger behind github.com/rs/zerolog/log.
func SetGlobal(l zerolog.Logger) {
	log.Logger = l
}
