// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package activity

import (
	"sort"
	"sync"
	"time"
)

// History keeps the most recent events, bounded by count and age.
type History struct {
	mu        sync.RWMutex
	events    []Event
	maxEvents int
	maxAge    time.Duration
	now       func() time.Time
}

// NewHistory creates a history. Non-positive limits fall back to 1000
// events and one day.
func NewHistory(maxEvents int, maxAge time.Duration) *History {
	if maxEvents <= 0 {
		maxEvents = 1000
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &History{maxEvents: maxEvents, maxAge: maxAge, now: time.Now}
}

// Add stores an event, dropping the oldest when full.
func (h *History) Add(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, event)
	if len(h.events) > h.maxEvents {
		h.events = h.events[len(h.events)-h.maxEvents:]
	}
}

// Query returns matching events, oldest first.
func (h *History) Query(filter Filter) []Event {
	h.mu.RLock()
	result := make([]Event, 0)
	for _, e := range h.events {
		if !MatchAny(e.Type, filter.Types) {
			continue
		}
		if filter.Entity != "" && e.Entity != filter.Entity {
			continue
		}
		if !filter.Since.IsZero() && e.Timestamp.Before(filter.Since) {
			continue
		}
		result = append(result, e)
	}
	h.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[len(result)-filter.Limit:]
	}
	return result
}

// Prune drops events older than the max age.
func (h *History) Prune() {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := h.now().Add(-h.maxAge)
	kept := h.events[:0]
	for _, e := range h.events {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	h.events = kept
}

// Len returns the number of stored events.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events)
}

// Recent returns up to n events, newest first.
func Recent(bus Bus, n int) []Event {
	events := bus.History(Filter{Limit: n})
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events
}
