// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches API errors with status 404 and single-record
// responses that carry no record.
var ErrNotFound = errors.New("record not found")

// TransportError reports a request that never produced a usable response:
// connection refused, DNS failure, timeout, or a truncated body.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response from the LawIA API.
//
// Message is the "error" field of a JSON body when present, otherwise the
// raw response text. Body keeps the raw text for logging.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"status"`

	// Message is the human-readable description of the error.
	Message string `json:"message"`

	// Body is the raw response body.
	Body string `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Message)
}

// Is reports whether the error matches target. 404 responses match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// LogicalError is an {"error": "..."} body delivered with a 2xx status.
type LogicalError struct {
	Message string
}

// Error implements the error interface.
func (e *LogicalError) Error() string {
	return e.Message
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	trimmed := bytes.TrimSpace(body)
	var env struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &env) == nil {
		var msg string
		switch {
		case len(env.Error) > 0 && json.Unmarshal(env.Error, &msg) == nil && msg != "":
			apiErr.Message = msg
			return apiErr
		case len(env.Error) > 0 && string(env.Error) != "null":
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(env.Error, &nested) == nil && nested.Message != "" {
				apiErr.Message = nested.Message
				return apiErr
			}
		case env.Message != "":
			apiErr.Message = env.Message
			return apiErr
		}
	}

	apiErr.Message = string(trimmed)
	return apiErr
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an
// *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
