// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"errors"
	"fmt"

	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

// ValidationError is a form rule failure detected before any request.
type ValidationError struct {
	Key    string   // Message key
	Fields []string // Offending fields
}

func (e *ValidationError) Error() string {
	return i18n.T(i18n.Default, e.Key)
}

// Text returns the message in lang.
func (e *ValidationError) Text(lang string) string {
	return i18n.T(lang, e.Key)
}

func invalid(key string, fields ...string) *ValidationError {
	return &ValidationError{Key: key, Fields: fields}
}

// Describe turns an operation error into the message shown to the user.
//
// failedKey formats API rejections as "<status> - <message>"; networkKey is
// shown when no response arrived. Validation and logical errors carry their
// own text.
func Describe(lang string, err error, failedKey, networkKey string) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Text(lang)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = i18n.T(lang, "common.unknown_error")
		}
		return i18n.T(lang, failedKey, fmt.Sprintf("%d - %s", apiErr.StatusCode, msg))
	}

	var logical *client.LogicalError
	if errors.As(err, &logical) {
		return logical.Message
	}

	return i18n.T(lang, networkKey)
}
