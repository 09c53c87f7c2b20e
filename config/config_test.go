package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8081", cfg.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.StatusPollInterval)
	require.Equal(t, 2*time.Second, cfg.PairingPollInterval)
	require.Equal(t, 0.7, cfg.OpenAI.Temperature)
	require.False(t, cfg.Backup.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
server_url: https://imob.example.com
status_poll_interval: 10s
openai:
  model: gpt-4o
  temperature: 0.2
backup:
  enabled: true
  bucket: imob-backups
`), 0o600)
	require.NoError(t, err)

	t.Setenv("IMOB_OPENAI_API_KEY", "sk-test")
	t.Setenv("IMOB_LISTEN_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://imob.example.com", cfg.ServerURL)
	require.Equal(t, 10*time.Second, cfg.StatusPollInterval)
	require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	require.Equal(t, 0.2, cfg.OpenAI.Temperature)
	require.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.True(t, cfg.Backup.Enabled)
	require.Equal(t, "imob-backups", cfg.Backup.Bucket)
	require.Equal(t, "us-east-1", cfg.Backup.Region)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveIntervals(t *testing.T) {
	for _, key := range []string{"IMOB_STATUS_POLL_INTERVAL", "IMOB_PAIRING_POLL_INTERVAL", "IMOB_HTTP_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "0s")
			_, err := Load("")
			require.Error(t, err)
		})
	}
}
