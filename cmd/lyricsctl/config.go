package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultPageSize  = 15
)

type cliConfig struct {
	ServerURL string `toml:"server_url"`
	Token     string `toml:"token"`
	PageSize  int    `toml:"page_size"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{ServerURL: defaultServerURL, PageSize: defaultPageSize}
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lyricsctl", "config.toml"), nil
}

// loadCLIConfig reads path (or the default location) on top of the defaults.
// A missing file is not an error.
func loadCLIConfig(path string) (cliConfig, string, error) {
	cfg := defaultCLIConfig()

	path = strings.TrimSpace(path)
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, "", err
		}
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, path, nil
	}
	if err != nil {
		return cfg, path, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, path, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return cfg, path, nil
}

func saveCLIConfig(path string, cfg cliConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
