// Package logging builds the zerolog logger shared by the binaries.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/internal/config"
)

// NewLogger creates a structured logger tagged with the service name.
func NewLogger(cfg *config.LoggerConfig, service string) zerolog.Logger {
	return newLogger(os.Stdout, cfg, service)
}

func newLogger(w io.Writer, cfg *config.LoggerConfig, service string) zerolog.Logger {
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
