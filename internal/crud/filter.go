// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package crud holds the view logic shared by the client, case and document
// screens: search filtering, list deletion, detail loading and the generic
// form controller.
package crud

import "strings"

// FieldFunc extracts one searchable value from an item.
type FieldFunc[T any] func(T) string

// Filter returns the items where any field contains term, ignoring case.
// A blank term returns items unchanged. The input slice is never modified.
func Filter[T any](items []T, term string, fields []FieldFunc[T]) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(it)), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
