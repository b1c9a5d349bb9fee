package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_base_url":          "https://www.example:9000",
		"online_check_interval": "10s",
		"request_timeout":       1_000_000_000,
		"biometric": map[string]any{
			"modalities": []string{"face", "fingerprint"},
		},
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, "https://www.example:9000", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
		assert.Equal(t, []string{"face", "fingerprint"}, cfg.BiometricModalities)
		assert.Equal(t, "info", cfg.LogLevel, "absent keys keep their value")
		assert.True(t, cfg.BiometricEnrolled, "absent nested keys keep their value")
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			APIBaseURL:          "http://defaults:1234",
			OnlineCheckInterval: 42 * time.Second,
		}
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, "http://defaults:1234", cfg.APIBaseURL)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Error(t, parseJson(&Config{}))
	})

	t.Run("missing file → error", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Error(t, parseJson(&Config{}))
	})
}
