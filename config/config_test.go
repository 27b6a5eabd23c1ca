package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "")
	t.Setenv(EnvSocketURL, "")

	cfg := Load()
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultSocketURL, cfg.SocketURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "https://api.example.com/v1")
	t.Setenv(EnvSocketURL, "wss://ws.example.com")

	cfg := Load()
	assert.Equal(t, "https://api.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, "wss://ws.example.com", cfg.SocketURL)
}

func TestLoadFileCreatesMissingFile(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "")
	t.Setenv(EnvSocketURL, "")
	path := filepath.Join(t.TempDir(), "mingle.json")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_base_url")
}

func TestLoadFileOverridesEnv(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "https://env.example.com")
	path := filepath.Join(t.TempDir(), "mingle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"socket_url":"wss://file.example.com"}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	// File wins for the field it sets; env survives for the rest.
	assert.Equal(t, "wss://file.example.com", cfg.SocketURL)
	assert.Equal(t, "https://env.example.com", cfg.APIBaseURL)
}

func TestLoadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mingle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{nope`), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
