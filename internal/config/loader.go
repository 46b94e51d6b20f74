// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hjson/hjson-go/v4"
	"github.com/joho/godotenv"
)

// ErrNotFound is returned by FindConfig when no candidate file exists.
var ErrNotFound = errors.New("config file not found (looked for lawia.hjson, lawia.json)")

// Loader handles configuration file loading.
type Loader struct {
	getenv func(string) string
}

// NewLoader creates a new config loader that reads overrides from the
// process environment.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// Load reads and parses the configuration from the given path.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	// Parse HJSON to intermediate map
	var raw map[string]interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse hjson: %w", err)
	}

	// Convert to JSON and unmarshal to struct (for type safety)
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("convert to json: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config with default values and environment
// overrides applied, then validates it. An empty path skips the file and
// starts from defaults.
func (l *Loader) LoadWithDefaults(ctx context.Context, path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		cfg, err = l.Load(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	l.applyEnv(cfg)
	applyDefaults(cfg)

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// FindConfig searches for a config file in the current directory.
// It looks for lawia.hjson first, then lawia.json.
func (l *Loader) FindConfig() (string, error) {
	candidates := []string{
		"lawia.hjson",
		"lawia.json",
	}

	for _, name := range candidates {
		path := filepath.Join(".", name)
		if _, err := os.Stat(path); err == nil {
			abs, err := filepath.Abs(path)
			if err != nil {
				return path, nil
			}
			return abs, nil
		}
	}

	return "", ErrNotFound
}

// applyEnv overrides file values with LAWIA_* environment variables.
func (l *Loader) applyEnv(cfg *Config) {
	if v := l.getenv("LAWIA_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := l.getenv("LAWIA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := l.getenv("LAWIA_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := l.getenv("LAWIA_LANG"); v != "" {
		cfg.UI.Language = v
	}
	if v := l.getenv("LAWIA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := l.getenv("LAWIA_TEMPLATES_DIR"); v != "" {
		cfg.UI.TemplatesDir = v
	}
}

// applyDefaults sets default values for missing config fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.ShutdownTimeout == "" {
		cfg.Server.ShutdownTimeout = "10s"
	}

	// API defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:3000"
	}
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = "30s"
	}
	if cfg.API.ReportsPath == "" {
		cfg.API.ReportsPath = "/api/relatorios"
	}
	if cfg.API.HealthPath == "" {
		cfg.API.HealthPath = "/api/health_check"
	}

	// UI defaults
	if cfg.UI.Language == "" {
		cfg.UI.Language = "pt"
	}
	if cfg.UI.RedirectDelay == "" {
		cfg.UI.RedirectDelay = "1500ms"
	}
	if cfg.UI.MaxUploadBytes == 0 {
		cfg.UI.MaxUploadBytes = 32 << 20
	}
	if cfg.UI.LookupConcurrency == 0 {
		cfg.UI.LookupConcurrency = 8
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	// Activity defaults
	if cfg.Activity.MaxEvents == 0 {
		cfg.Activity.MaxEvents = 500
	}
	if cfg.Activity.MaxAge == "" {
		cfg.Activity.MaxAge = "24h"
	}
}
