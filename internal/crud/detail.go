// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/lawia/lawia-web/pkg/client"
)

// Detail is the outcome of loading one record.
type Detail[T any] struct {
	ID       int
	Record   *T
	NotFound bool
	Err      error
}

// Loaded reports whether the record is available.
func (d Detail[T]) Loaded() bool {
	return d.Record != nil && !d.NotFound && d.Err == nil
}

// ParseID parses a path identifier. Only positive integers are valid.
func ParseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// LoadDetail fetches the record named by rawID. An invalid identifier and
// an API not-found are both reported as NotFound; every other failure is
// kept in Err.
func LoadDetail[T any](ctx context.Context, rawID string, get func(context.Context, int) (*T, error)) Detail[T] {
	id, ok := ParseID(rawID)
	if !ok {
		return Detail[T]{NotFound: true}
	}

	rec, err := get(ctx, id)
	switch {
	case errors.Is(err, client.ErrNotFound):
		return Detail[T]{ID: id, NotFound: true}
	case err != nil:
		return Detail[T]{ID: id, Err: err}
	case rec == nil:
		return Detail[T]{ID: id, NotFound: true}
	}
	return Detail[T]{ID: id, Record: rec}
}

// DateOnly truncates an ISO timestamp to YYYY-MM-DD. Other values are
// returned unchanged.
func DateOnly(s string) string {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}
