package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SecurityNewsMonitor/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SECNEWS_CONFIG", "TOGETHER_API_KEY", "TOGETHER_MODEL",
		"SMTP_SERVER", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
		"EMAIL_FROM", "EMAIL_TO", "VENDORS_FILE",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "UTC", cfg.Monitor.Timezone)
	require.Equal(t, 30*time.Second, cfg.Monitor.FetchTimeout())
	require.Equal(t, "https://api.together.xyz/v1/chat/completions", cfg.Together.Endpoint)
	require.Equal(t, "smtp.gmail.com", cfg.SMTP.Server)
	require.Equal(t, 587, cfg.SMTP.Port)
	require.True(t, cfg.SMTP.UseTLS)
	require.False(t, cfg.SMTP.Configured())
	require.Equal(t, "vendors.json", cfg.Storage.VendorsFile)

	require.Len(t, cfg.Sites, 3)
	require.Equal(t, "TheHackerNews", cfg.Sites[0].Name)
	require.Equal(t, "hackernews", cfg.Sites[0].Scanner)
	require.Equal(t, "BleepingComputer", cfg.Sites[1].Name)
	require.Equal(t, "SecurityWeek", cfg.Sites[2].Name)
}

func TestLoadPathMergesOverDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
logging:
  level: debug
monitor:
  timezone: Asia/Tokyo
  fetchTimeoutSeconds: 10
together:
  apiKey: file-key
smtp:
  from: alerts@example.com
  to: team@example.com
  username: alerts@example.com
  password: hunter2
storage:
  vendorsFile: /tmp/vendors.json
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg := config.LoadPath(path)

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "Asia/Tokyo", cfg.Monitor.Timezone)
	require.Equal(t, "Asia/Tokyo", cfg.Monitor.Location().String())
	require.Equal(t, 10*time.Second, cfg.Monitor.FetchTimeout())
	require.Equal(t, "file-key", cfg.Together.APIKey)
	// Fields absent from the file keep their defaults.
	require.Equal(t, "meta-llama/Llama-3.2-90B-Vision-Instruct-Turbo", cfg.Together.DedupeModel)
	require.Equal(t, "smtp.gmail.com", cfg.SMTP.Server)
	require.True(t, cfg.SMTP.Configured())
	require.Equal(t, "/tmp/vendors.json", cfg.Storage.VendorsFile)
	require.Len(t, cfg.Sites, 3)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOGETHER_API_KEY", "env-key")
	t.Setenv("TOGETHER_MODEL", "custom/model")
	t.Setenv("SMTP_SERVER", "mail.internal")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_PASS", "s3cret")
	t.Setenv("EMAIL_FROM", "bot@internal")
	t.Setenv("EMAIL_TO", "secops@internal")
	t.Setenv("VENDORS_FILE", "/data/vendors.json")

	cfg := config.Load()

	require.Equal(t, "env-key", cfg.Together.APIKey)
	require.Equal(t, "custom/model", cfg.Together.AnalysisModel)
	require.Equal(t, "mail.internal", cfg.SMTP.Server)
	require.Equal(t, 2525, cfg.SMTP.Port)
	// EMAIL_FROM doubles as the SMTP username when none is set.
	require.Equal(t, "bot@internal", cfg.SMTP.Username)
	require.Equal(t, "secops@internal", cfg.SMTP.To)
	require.True(t, cfg.SMTP.Configured())
	require.Equal(t, "/data/vendors.json", cfg.Storage.VendorsFile)
}

func TestLoadPathMissingFileFallsBack(t *testing.T) {
	clearEnv(t)

	cfg := config.LoadPath(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Equal(t, "UTC", cfg.Monitor.Timezone)
	require.Len(t, cfg.Sites, 3)
}

func TestBadTimezoneRevertsToUTC(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitor:\n  timezone: Mars/Olympus\n"), 0o644))

	cfg := config.LoadPath(path)
	require.Equal(t, "UTC", cfg.Monitor.Location().String())
}
