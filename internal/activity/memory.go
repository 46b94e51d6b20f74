// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package activity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lawia/lawia-web/internal/logging"
)

// ErrBusClosed is returned when operating on a closed bus.
var ErrBusClosed = errors.New("activity bus is closed")

// ErrSubscriptionNotFound is returned when unsubscribing with an unknown ID.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// Config configures a MemoryBus.
type Config struct {
	MaxEvents int
	MaxAge    time.Duration
	Logger    logging.Logger
}

// MemoryBus is an in-process Bus.
type MemoryBus struct {
	mu         sync.RWMutex
	subs       map[SubscriptionID]*subscription
	history    *History
	log        logging.Logger
	closed     atomic.Bool
	wg         sync.WaitGroup
	stopPruner chan struct{}
}

type subscription struct {
	pattern string
	handler Handler
	ch      chan Event // nil for synchronous subscribers
	stop    chan struct{}
}

// NewMemoryBus creates a bus and starts its history pruner.
func NewMemoryBus(cfg Config) *MemoryBus {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	bus := &MemoryBus{
		subs:       make(map[SubscriptionID]*subscription),
		history:    NewHistory(cfg.MaxEvents, cfg.MaxAge),
		log:        cfg.Logger.With("component", "activity"),
		stopPruner: make(chan struct{}),
	}

	interval := bus.history.maxAge / 10
	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > time.Hour {
		interval = time.Hour
	}

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-bus.stopPruner:
				return
			case <-ticker.C:
				bus.history.Prune()
			}
		}
	}()

	return bus
}

// Publish stores the event and delivers it to matching subscribers.
// Synchronous handlers run inline; async handlers never block the publisher.
func (bus *MemoryBus) Publish(ctx context.Context, event Event) error {
	if bus.closed.Load() {
		return ErrBusClosed
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = logging.RequestID(ctx)
	}

	bus.history.Add(event)

	bus.mu.RLock()
	subs := make([]*subscription, 0, len(bus.subs))
	for _, s := range bus.subs {
		if Match(event.Type, s.pattern) {
			subs = append(subs, s)
		}
	}
	bus.mu.RUnlock()

	for _, s := range subs {
		if s.ch != nil {
			select {
			case s.ch <- event:
			default:
				bus.log.Warn(ctx, "dropped activity event, subscriber buffer full", "type", event.Type)
			}
			continue
		}
		bus.call(ctx, s.handler, event)
	}
	return nil
}

func (bus *MemoryBus) call(ctx context.Context, h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			bus.log.Error(ctx, "activity handler panic", "type", event.Type, "panic", r)
		}
	}()
	h(ctx, event)
}

// Subscribe registers a handler that runs inside Publish.
func (bus *MemoryBus) Subscribe(pattern string, handler Handler) (SubscriptionID, error) {
	return bus.add(pattern, &subscription{pattern: pattern, handler: handler})
}

// SubscribeAsync registers a handler fed through a buffered channel.
func (bus *MemoryBus) SubscribeAsync(pattern string, handler Handler, bufferSize int) (SubscriptionID, error) {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	s := &subscription{
		pattern: pattern,
		handler: handler,
		ch:      make(chan Event, bufferSize),
		stop:    make(chan struct{}),
	}
	id, err := bus.add(pattern, s)
	if err != nil {
		return "", err
	}

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		for {
			select {
			case <-s.stop:
				return
			case event := <-s.ch:
				bus.call(context.Background(), handler, event)
			}
		}
	}()
	return id, nil
}

func (bus *MemoryBus) add(pattern string, s *subscription) (SubscriptionID, error) {
	if bus.closed.Load() {
		return "", ErrBusClosed
	}
	if pattern == "" {
		return "", ErrEmptyPattern
	}
	id := SubscriptionID(uuid.NewString())
	bus.mu.Lock()
	bus.subs[id] = s
	bus.mu.Unlock()
	return id, nil
}

// Unsubscribe removes a subscription and stops its goroutine.
func (bus *MemoryBus) Unsubscribe(id SubscriptionID) error {
	bus.mu.Lock()
	s, ok := bus.subs[id]
	if ok {
		delete(bus.subs, id)
	}
	bus.mu.Unlock()

	if !ok {
		return ErrSubscriptionNotFound
	}
	if s.stop != nil {
		close(s.stop)
	}
	return nil
}

// History returns stored events matching filter, oldest first.
func (bus *MemoryBus) History(filter Filter) []Event {
	return bus.history.Query(filter)
}

// Close stops the pruner and every async subscriber.
func (bus *MemoryBus) Close() error {
	if bus.closed.Swap(true) {
		return nil
	}
	close(bus.stopPruner)

	bus.mu.Lock()
	for _, s := range bus.subs {
		if s.stop != nil {
			close(s.stop)
		}
	}
	bus.subs = make(map[SubscriptionID]*subscription)
	bus.mu.Unlock()

	bus.wg.Wait()
	return nil
}
