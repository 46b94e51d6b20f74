// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration against schema rules.
type Validator struct{}

// NewValidator creates a new config validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidationError contains multiple validation failures.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single field validation error.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(msgs, "; ")
}

// IsEmpty returns true if there are no validation errors.
func (e *ValidationError) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Add adds a field error.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Validate checks configuration validity.
func (v *Validator) Validate(cfg *Config) error {
	errs := &ValidationError{}

	v.validateServer(cfg, errs)
	v.validateAPI(cfg, errs)
	v.validateUI(cfg, errs)
	v.validateLogging(cfg, errs)
	v.validateDurations(cfg, errs)

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func (v *Validator) validateServer(cfg *Config, errs *ValidationError) {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs.Add("server.port", "must be between 0 and 65535")
	}
	if cfg.Server.TLSTailscale && (cfg.Server.TLSCert != "" || cfg.Server.TLSKey != "") {
		errs.Add("server.tls_tailscale", "cannot be combined with tls_cert/tls_key")
	}
}

func (v *Validator) validateAPI(cfg *Config, errs *ValidationError) {
	if cfg.API.BaseURL == "" {
		errs.Add("api.base_url", "is required")
		return
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Add("api.base_url", fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", cfg.API.BaseURL))
	}
	for field, p := range map[string]string{"api.reports_path": cfg.API.ReportsPath, "api.health_path": cfg.API.HealthPath} {
		if p != "" && !strings.HasPrefix(p, "/") {
			errs.Add(field, "must start with '/'")
		}
	}
}

func (v *Validator) validateUI(cfg *Config, errs *ValidationError) {
	if cfg.UI.Language != "" {
		validLanguages := map[string]bool{
			"pt": true,
			"en": true,
		}
		if !validLanguages[cfg.UI.Language] {
			errs.Add("ui.language", fmt.Sprintf("invalid language '%s', must be one of: pt, en", cfg.UI.Language))
		}
	}
	if cfg.UI.MaxUploadBytes < 0 {
		errs.Add("ui.max_upload_bytes", "must be positive")
	}
	if cfg.UI.LookupConcurrency < 0 {
		errs.Add("ui.lookup_concurrency", "must be positive")
	}
	if cfg.Activity.MaxEvents < 0 {
		errs.Add("activity.max_events", "must be positive")
	}
}

func (v *Validator) validateLogging(cfg *Config, errs *ValidationError) {
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[cfg.Logging.Level] {
			errs.Add("logging.level", fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", cfg.Logging.Level))
		}
	}

	if cfg.Logging.Format != "" {
		validFormats := map[string]bool{
			"json": true,
			"text": true,
		}
		if !validFormats[cfg.Logging.Format] {
			errs.Add("logging.format", fmt.Sprintf("invalid format '%s', must be one of: json, text", cfg.Logging.Format))
		}
	}
}

func (v *Validator) validateDurations(cfg *Config, errs *ValidationError) {
	durations := []struct {
		field string
		value string
	}{
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeout},
		{"api.timeout", cfg.API.Timeout},
		{"ui.redirect_delay", cfg.UI.RedirectDelay},
		{"activity.max_age", cfg.Activity.MaxAge},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := parseDurationWithDays(d.value)
		if err != nil {
			errs.Add(d.field, fmt.Sprintf("invalid duration format: %s", err))
		} else if parsed < 0 {
			errs.Add(d.field, "must be positive")
		}
	}
}
