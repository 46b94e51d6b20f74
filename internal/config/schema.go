// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config handles HJSON configuration loading for the LawIA web server.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Version  string         `json:"version"`
	Server   ServerConfig   `json:"server"`
	API      APIConfig      `json:"api"`
	UI       UIConfig       `json:"ui"`
	Logging  LoggingConfig  `json:"logging"`
	Activity ActivityConfig `json:"activity"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int    `json:"port"`
	Host            string `json:"host"`
	TLSCert         string `json:"tls_cert"`      // Path to TLS certificate file (enables HTTPS if both cert and key set)
	TLSKey          string `json:"tls_key"`       // Path to TLS private key file
	TLSTailscale    bool   `json:"tls_tailscale"` // Fetch certificates from the local tailscaled
	ShutdownTimeout string `json:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig points at the LawIA REST backend.
type APIConfig struct {
	BaseURL     string `json:"base_url"`
	Timeout     string `json:"timeout"`
	ReportsPath string `json:"reports_path"`
	HealthPath  string `json:"health_path"`
}

// UIConfig configures page behavior.
type UIConfig struct {
	Language          string `json:"language"`            // "pt" or "en"
	RedirectDelay     string `json:"redirect_delay"`      // Delay before leaving a form after a successful save
	MaxUploadBytes    int64  `json:"max_upload_bytes"`    // Largest document accepted by the upload form
	HydrateClientList *bool  `json:"hydrate_client_list"` // Fetch full client records for the list view
	LookupConcurrency int    `json:"lookup_concurrency"`  // Parallel requests per page
	TemplatesDir      string `json:"templates_dir"`       // Load templates from disk and reload on change
}

// Hydrate reports whether the client list should fetch full records.
func (u UIConfig) Hydrate() bool {
	return u.HydrateClientList == nil || *u.HydrateClientList
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ActivityConfig bounds the in-memory activity history.
type ActivityConfig struct {
	MaxEvents int    `json:"max_events"`
	MaxAge    string `json:"max_age"`
}

// ParseDuration parses a duration string, returning a default if empty.
func ParseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := parseDurationWithDays(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// parseDurationWithDays parses a duration string that may include days (e.g., "7d").
func parseDurationWithDays(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
