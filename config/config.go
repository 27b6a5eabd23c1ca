// Package config resolves the externally configurable endpoints.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Documented localhost defaults, used when nothing else is configured.
const (
	DefaultAPIBaseURL = "http://localhost:8045/api/v1"
	DefaultSocketURL  = "ws://localhost:10010"
)

// Environment variable names.
const (
	EnvAPIBaseURL = "MINGLE_API_URL"
	EnvSocketURL  = "MINGLE_SOCKET_URL"
)

type Config struct {
	APIBaseURL string `json:"api_base_url"`
	SocketURL  string `json:"socket_url"`
}

// Load resolves configuration from the environment, falling back to the
// localhost defaults.
func Load() Config {
	cfg := Config{
		APIBaseURL: DefaultAPIBaseURL,
		SocketURL:  DefaultSocketURL,
	}
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvSocketURL); v != "" {
		cfg.SocketURL = v
	}
	return cfg
}

// LoadFile overlays Load with a JSON config file. A missing file is
// created with the current values so every field is documented on disk.
func LoadFile(path string) (Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		out, merr := json.MarshalIndent(cfg, "", "  ")
		if merr != nil {
			return cfg, merr
		}
		if werr := os.WriteFile(path, out, 0644); werr != nil {
			return cfg, fmt.Errorf("config: write defaults: %w", werr)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
