package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuschat/nexus-server/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "nexus-server", cfg.ServiceName)
	assert.Equal(t, 3001, cfg.HTTPPort)
	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.TypingStopDelay)
	assert.Equal(t, 256, cfg.SessionSendBuffer)
	assert.Equal(t, 75*time.Second, cfg.AIQueryTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("TYPING_STOP_DELAY", "5s")
	t.Setenv("AI_MODEL", "gpt-4o")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.TypingStopDelay)
	assert.Equal(t, "gpt-4o", cfg.AIModel)
}

func TestLoad_EmptyDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "   ")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_NonPositiveDurationsFallBack(t *testing.T) {
	t.Setenv("TYPING_STOP_DELAY", "0s")
	t.Setenv("SESSION_SEND_BUFFER", "-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.TypingStopDelay)
	assert.Equal(t, 256, cfg.SessionSendBuffer)
}
