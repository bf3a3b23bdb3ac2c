package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GITFORUM_STATE_DIR", t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, "ws://localhost:8000/ws/notifications/", cfg.WSEndpoint)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.Debug)
	assert.Equal(t, filepath.Join(cfg.StateDir, "state.json"), cfg.StatePath())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GITFORUM_API_URL", "https://forum.example.com/api")
	t.Setenv("GITFORUM_WS_URL", "wss://forum.example.com/ws/notifications/")
	t.Setenv("GITFORUM_STATE_DIR", "/tmp/gitforum-test")
	t.Setenv("GITFORUM_HTTP_TIMEOUT", "10s")
	t.Setenv("GITFORUM_DEBUG", "1")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://forum.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "wss://forum.example.com/ws/notifications/", cfg.WSEndpoint)
	assert.Equal(t, "/tmp/gitforum-test", cfg.StateDir)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoadReportsInvalidValues(t *testing.T) {
	t.Setenv("GITFORUM_STATE_DIR", t.TempDir())
	t.Setenv("GITFORUM_HTTP_TIMEOUT", "not-a-duration")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITFORUM_HTTP_TIMEOUT")
}
