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

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()

	t.Run("loads from flags", func(t *testing.T) {
		path := writeTempJSON(t, dir, "full.json", map[string]any{
			"server_url":      "http://www.example:9000",
			"request_timeout": "7s",
		})

		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
		assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{"request_timeout": 2000000000})

		cfg := &Config{ServerURL: "http://keep:1"}
		require.NoError(t, parseJson(cfg, []string{"-c", path}))

		assert.Equal(t, "http://keep:1", cfg.ServerURL)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	})

	t.Run("no flag → no changes", func(t *testing.T) {
		cfg := &Config{ServerURL: "http://defaults:1234", RequestTimeout: 42 * time.Second}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "http://defaults:1234", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJson(&Config{}, []string{"-config", bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})
}
