package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/clients/chat-sync/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CHAT_AUTH_TOKEN", "token")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "chat-sync", cfg.ServiceName)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 4, cfg.BackfillConcurrency)
}

func TestLoad_RequiresIdentity(t *testing.T) {
	t.Setenv("CHAT_AUTH_TOKEN", "")
	t.Setenv("CHAT_USER_ID", "0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_AUTH_TOKEN")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CHAT_USER_ID", "42")
	t.Setenv("CHAT_API_BASE_URL", "https://chat.example.com/api")
	t.Setenv("CHAT_HTTP_TIMEOUT", "3s")
	t.Setenv("CHAT_BACKFILL_CONCURRENCY", "8")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.EqualValues(t, 42, cfg.UserID)
	assert.Equal(t, "https://chat.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8, cfg.BackfillConcurrency)
}
