// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import "context"

// List is the collection a list view holds for the duration of one request.
type List[T any] struct {
	items []T
	id    func(T) int
}

// NewList wraps items. id returns an item's identifier.
func NewList[T any](items []T, id func(T) int) *List[T] {
	return &List[T]{items: items, id: id}
}

// Items returns the current collection.
func (l *List[T]) Items() []T {
	return l.items
}

// Len returns the collection size.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Filter applies [Filter] to the collection.
func (l *List[T]) Filter(term string, fields []FieldFunc[T]) []T {
	return Filter(l.items, term, fields)
}

// Remove drops the first item with identifier id and reports whether one
// was found.
func (l *List[T]) Remove(id int) bool {
	for i, it := range l.items {
		if l.id(it) == id {
			out := make([]T, 0, len(l.items)-1)
			out = append(out, l.items[:i]...)
			l.items = append(out, l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Delete calls del and removes id from the collection only when del
// succeeds. On failure the collection is left as it was.
func (l *List[T]) Delete(ctx context.Context, id int, del func(context.Context, int) error) error {
	if err := del(ctx, id); err != nil {
		return err
	}
	l.Remove(id)
	return nil
}
