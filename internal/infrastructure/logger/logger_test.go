package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/nexuschat/nexus-server/internal/config"
	"github.com/nexuschat/nexus-server/internal/infrastructure/logger"
)

func TestNew_LevelFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"mixed case", "ERROR", zerolog.ErrorLevel},
		{"empty falls back to info", "", zerolog.InfoLevel},
		{"garbage falls back to info", "loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.New(&config.Config{
				ServiceName: "nexus-server",
				Environment: "test",
				LogLevel:    tt.level,
			})
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}
