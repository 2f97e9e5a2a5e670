package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/config"
)

// New builds the root logger for the chat service. Subsystems derive their
// own loggers from it with a component field, so every line carries the
// service identity plus the emitting component.
func New(cfg *config.Config) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(writer).
		Level(parseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}

// parseLevel maps the configured level name to a zerolog level, falling back
// to info when unset or unrecognized.
func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
