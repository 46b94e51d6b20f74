// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package activity records the writes and admin actions performed through
// this server and fans them out to live subscribers.
package activity

import (
	"context"
	"time"
)

// Event is one immutable activity record.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Entity    string    `json:"entity,omitempty"`
	EntityID  int       `json:"entity_id,omitempty"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// Handler receives published events.
type Handler func(ctx context.Context, event Event)

// SubscriptionID identifies a subscription.
type SubscriptionID string

// Filter selects events from history.
type Filter struct {
	Types  []string  // Type patterns, wildcards allowed
	Entity string    // Exact entity match
	Since  time.Time // Events at or after this time
	Limit  int       // Keep only the newest N
}

// Bus publishes activity events and keeps a bounded history.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(pattern string, handler Handler) (SubscriptionID, error)
	SubscribeAsync(pattern string, handler Handler, bufferSize int) (SubscriptionID, error)
	Unsubscribe(id SubscriptionID) error
	History(filter Filter) []Event
	Close() error
}

// Entities.
const (
	EntityClient   = "cliente"
	EntityCase     = "caso"
	EntityDocument = "documento"
	EntityAdmin    = "admin"
)

// Actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TypeOf builds an event type such as "cliente.created" or "admin.clean".
func TypeOf(entity, action string) string {
	return entity + "." + action
}
