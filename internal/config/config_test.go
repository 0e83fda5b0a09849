package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000", cfg.ServerURL)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.NotEmpty(t, cfg.LogFile)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "server_url: https://chat.example.com\ntimeout: 5s\nlog_file: /tmp/parley-test.log\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://chat.example.com", cfg.ServerURL)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, "/tmp/parley-test.log", cfg.LogFile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: https://file.example.com\n"), 0644))

	t.Setenv("PARLEY_SERVER_URL", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.ServerURL)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [broken\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
