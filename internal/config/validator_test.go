// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestValidator_Defaults(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(validConfig()))
}

func TestValidator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"tailscale with files", func(c *Config) { c.Server.TLSTailscale = true; c.Server.TLSCert = "cert.pem" }, "server.tls_tailscale"},
		{"bad api scheme", func(c *Config) { c.API.BaseURL = "ftp://api" }, "api.base_url"},
		{"api without host", func(c *Config) { c.API.BaseURL = "http://" }, "api.base_url"},
		{"relative reports path", func(c *Config) { c.API.ReportsPath = "api/relatorios" }, "api.reports_path"},
		{"unknown language", func(c *Config) { c.UI.Language = "es" }, "ui.language"},
		{"negative upload", func(c *Config) { c.UI.MaxUploadBytes = -1 }, "ui.max_upload_bytes"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad duration", func(c *Config) { c.UI.RedirectDelay = "soon" }, "ui.redirect_delay"},
		{"negative duration", func(c *Config) { c.API.Timeout = "-5s" }, "api.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)
			require.Error(t, err)

			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	errs := &ValidationError{}
	assert.True(t, errs.IsEmpty())

	errs.Add("server.port", "bad")
	errs.Add("ui.language", "worse")
	assert.False(t, errs.IsEmpty())
	assert.Equal(t, "server.port: bad; ui.language: worse", errs.Error())
}
