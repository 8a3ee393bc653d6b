package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields peloton needs to reach the race API.
type Config struct {
	APIURL   string
	PageSize int
}

const (
	defaultConfigPath = "~/.config/peloton/config.toml"
	defaultAPIURL     = "http://127.0.0.1:8000"
	defaultPageSize   = 8

	// EnvAPIURL overrides the configured API base URL. Values from a .env
	// file in the working directory are honored too.
	EnvAPIURL = "PELOTON_API_URL"
)

// Load locates and parses the peloton config, falling back to defaults
// when missing. Environment variables win over the file.
func Load(path string) (Config, error) {
	// Missing .env files are the normal case.
	_ = godotenv.Load()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIURL: defaultAPIURL, PageSize: defaultPageSize}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL   string `toml:"api_url"`
		PageSize int    `toml:"page_size"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize < 0 {
		return Config{}, fmt.Errorf("parse config: page_size %d is not positive", raw.PageSize)
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	return cfg
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
