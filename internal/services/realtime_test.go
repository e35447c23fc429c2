package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// chanConn collects events written to it, standing in for a WebSocket.
type chanConn struct {
	events chan JournalEvent
}

func newChanConn() *chanConn {
	return &chanConn{events: make(chan JournalEvent, 8)}
}

func (c *chanConn) WriteJSON(v interface{}) error {
	if event, ok := v.(JournalEvent); ok {
		c.events <- event
	}
	return nil
}

func (c *chanConn) Close() error { return nil }

func waitForEvent(t *testing.T, conn *chanConn) JournalEvent {
	t.Helper()
	select {
	case event := <-conn.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for journal event")
		return JournalEvent{}
	}
}

func TestEventHubDeliversToOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewEventHub(testRedis(t))
	hub.StartSubscriber(ctx)

	conn := newChanConn()
	hub.Register("owner-1", conn)
	defer hub.Unregister("owner-1", conn)

	// Give the PSubscribe a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	hub.Publish(ctx, JournalEvent{
		Type:    EventEntrySaved,
		OwnerID: "owner-1",
		EntryID: "entry-1",
	})

	event := waitForEvent(t, conn)
	if event.Type != EventEntrySaved || event.EntryID != "entry-1" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("publish should stamp the event")
	}
}

func TestEventHubScopesDeliveryToOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewEventHub(testRedis(t))
	hub.StartSubscriber(ctx)

	mine := newChanConn()
	theirs := newChanConn()
	hub.Register("owner-1", mine)
	hub.Register("owner-2", theirs)
	defer hub.Unregister("owner-1", mine)
	defer hub.Unregister("owner-2", theirs)

	time.Sleep(50 * time.Millisecond)

	hub.Publish(ctx, JournalEvent{Type: EventEntryDeleted, OwnerID: "owner-1", EntryID: "entry-9"})

	waitForEvent(t, mine)

	select {
	case event := <-theirs.events:
		t.Fatalf("event leaked to another user: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

// overlapConn fails the test if two WriteJSON calls ever run at once, the
// condition gorilla/websocket connections cannot tolerate.
type overlapConn struct {
	writers atomic.Int32
	overlap atomic.Bool
	seen    atomic.Int32
}

func (c *overlapConn) WriteJSON(v interface{}) error {
	if c.writers.Add(1) > 1 {
		c.overlap.Store(true)
	}
	time.Sleep(5 * time.Millisecond)
	c.writers.Add(-1)
	c.seen.Add(1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestEventHubSerializesWritesPerConnection(t *testing.T) {
	hub := NewEventHub(testRedis(t))

	conn := &overlapConn{}
	hub.Register("owner-1", conn)
	defer hub.Unregister("owner-1", conn)

	const events = 10
	for i := 0; i < events; i++ {
		hub.fanOut(JournalEvent{Type: EventEntrySaved, OwnerID: "owner-1", EntryID: "entry-1"})
	}

	deadline := time.After(2 * time.Second)
	for conn.seen.Load() < events {
		select {
		case <-deadline:
			t.Fatalf("only %d of %d writes completed", conn.seen.Load(), events)
		case <-time.After(10 * time.Millisecond):
		}
	}

	if conn.overlap.Load() {
		t.Fatal("two writes ran concurrently on the same connection")
	}
}

func TestEventHubUnregisterStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewEventHub(testRedis(t))
	hub.StartSubscriber(ctx)

	conn := newChanConn()
	hub.Register("owner-1", conn)
	time.Sleep(50 * time.Millisecond)
	hub.Unregister("owner-1", conn)

	hub.Publish(ctx, JournalEvent{Type: EventEntrySaved, OwnerID: "owner-1", EntryID: "entry-1"})

	select {
	case event := <-conn.events:
		t.Fatalf("unregistered connection still received %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}
