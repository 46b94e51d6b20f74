// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package activity

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawia/lawia-web/internal/logging"
)

func TestMemoryBus_Publish_AssignsFields(t *testing.T) {
	bus := NewMemoryBus(Config{})
	defer bus.Close()

	var got Event
	_, err := bus.Subscribe("*", func(ctx context.Context, e Event) { got = e })
	require.NoError(t, err)

	ctx := logging.WithRequestID(context.Background(), "req-1")
	require.NoError(t, bus.Publish(ctx, Event{Type: TypeOf(EntityClient, ActionCreated), EntityID: 3}))

	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "cliente.created", got.Type)
}

func TestMemoryBus_Subscribe_Pattern(t *testing.T) {
	bus := NewMemoryBus(Config{})
	defer bus.Close()

	var deletes, clients int
	_, err := bus.Subscribe("*.deleted", func(context.Context, Event) { deletes++ })
	require.NoError(t, err)
	_, err = bus.Subscribe("cliente.*", func(context.Context, Event) { clients++ })
	require.NoError(t, err)

	ctx := context.Background()
	bus.Publish(ctx, Event{Type: "cliente.created"})
	bus.Publish(ctx, Event{Type: "cliente.deleted"})
	bus.Publish(ctx, Event{Type: "caso.deleted"})
	bus.Publish(ctx, Event{Type: "admin.clean"})

	assert.Equal(t, 2, deletes)
	assert.Equal(t, 2, clients)
}

func TestMemoryBus_SubscribeAsync(t *testing.T) {
	bus := NewMemoryBus(Config{})
	defer bus.Close()

	received := make(chan Event, 1)
	_, err := bus.SubscribeAsync("admin.*", func(_ context.Context, e Event) { received <- e }, 10)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), Event{Type: "admin.init", Message: "ok"}))

	select {
	case e := <-received:
		assert.Equal(t, "ok", e.Message)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestMemoryBus_HandlerPanicRecovered(t *testing.T) {
	bus := NewMemoryBus(Config{})
	defer bus.Close()

	var after atomic.Int32
	_, err := bus.Subscribe("*", func(context.Context, Event) { panic("boom") })
	require.NoError(t, err)
	_, err = bus.Subscribe("*", func(context.Context, Event) { after.Add(1) })
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), Event{Type: "caso.updated"})
	})
	assert.Equal(t, int32(1), after.Load())
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(Config{})
	defer bus.Close()

	var count int
	id, err := bus.Subscribe("*", func(context.Context, Event) { count++ })
	require.NoError(t, err)

	bus.Publish(context.Background(), Event{Type: "a.b"})
	require.NoError(t, bus.Unsubscribe(id))
	bus.Publish(context.Background(), Event{Type: "a.b"})

	assert.Equal(t, 1, count)
	assert.ErrorIs(t, bus.Unsubscribe(id), ErrSubscriptionNotFound)
}

func TestMemoryBus_EmptyPattern(t *testing.T) {
	bus := NewMemoryBus(Config{})
	defer bus.Close()

	_, err := bus.Subscribe("", func(context.Context, Event) {})
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestMemoryBus_Closed(t *testing.T) {
	bus := NewMemoryBus(Config{})
	_, err := bus.SubscribeAsync("*", func(context.Context, Event) {}, 1)
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(context.Background(), Event{Type: "a.b"}), ErrBusClosed)
	_, err = bus.Subscribe("*", func(context.Context, Event) {})
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestRecent(t *testing.T) {
	bus := NewMemoryBus(Config{})
	defer bus.Close()

	base := time.Now()
	for i := 1; i <= 5; i++ {
		bus.Publish(context.Background(), Event{Type: "caso.created", EntityID: i, Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	recent := Recent(bus, 3)
	require.Len(t, recent, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{recent[0].EntityID, recent[1].EntityID, recent[2].EntityID})
}
