package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://localhost:8080", cfg.ServerBaseURL)
	require.Equal(t, "session.db", cfg.DatabasePath)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"client", "-a", "https://api.dormdeals.example", "-f", "/tmp/dd.db", "-t", "30"}

	cfg := LoadConfig()
	require.Equal(t, "https://api.dormdeals.example", cfg.ServerBaseURL)
	require.Equal(t, "/tmp/dd.db", cfg.DatabasePath)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
