package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.json")
	content := `{
		"server_base_url": "https://api.dormdeals.example",
		"database_path": "/var/lib/dormdeals/session.db",
		"request_timeout": "20s"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "https://api.dormdeals.example", cfg.ServerBaseURL)
	require.Equal(t, "/var/lib/dormdeals/session.db", cfg.DatabasePath)
	require.Equal(t, 20*time.Second, cfg.RequestTimeout)
}

func TestParseJson_NoFileFlag(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "http://localhost:8080", cfg.ServerBaseURL)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseJson(cfg) })
}
