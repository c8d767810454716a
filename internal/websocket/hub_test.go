// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package websocket

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/dailycard/internal/events"
	"github.com/tomtom215/dailycard/internal/logging"
)

//nolint:gochecknoinits // quiet logging for tests
func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

// newTestClient builds a client with no connection; tests read its send
// channel directly.
func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestHubBroadcastsPicks(t *testing.T) {
	hub, _, _ := startHub(t)
	a, b := newTestClient(hub, 4), newTestClient(hub, 4)
	if !hub.Register(context.Background(), a) || !hub.Register(context.Background(), b) {
		t.Fatal("Register returned false on a running hub")
	}
	waitForClients(t, hub, 2)

	hub.BroadcastPick(events.Pick{Theme: "movies", ItemID: "m1", Origin: events.OriginLocal})

	for _, c := range []*Client{a, b} {
		msg, ok := receive(t, c)
		if !ok {
			t.Fatal("send channel closed")
		}
		if msg.Type != MessageTypePick {
			t.Errorf("Type = %q, want %q", msg.Type, MessageTypePick)
		}
		if p, _ := msg.Data.(events.Pick); p.ItemID != "m1" {
			t.Errorf("Data = %+v, want pick m1", msg.Data)
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub, _, _ := startHub(t)
	c := newTestClient(hub, 1)
	hub.Register(context.Background(), c)
	waitForClients(t, hub, 1)

	hub.Unregister(c)
	waitForClients(t, hub, 0)
	if _, ok := receive(t, c); ok {
		t.Error("send channel still open after Unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, _, _ := startHub(t)
	slow := newTestClient(hub, 1)
	hub.Register(context.Background(), slow)
	waitForClients(t, hub, 1)

	hub.BroadcastPick(events.Pick{ItemID: "a"})
	hub.BroadcastPick(events.Pick{ItemID: "b"})
	waitForClients(t, hub, 0)
}

func TestHubServeStopsAndClosesClients(t *testing.T) {
	hub, cancel, done := startHub(t)
	c := newTestClient(hub, 1)
	hub.Register(context.Background(), c)
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if _, ok := receive(t, c); ok {
		t.Error("send channel still open after shutdown")
	}

	// Registration and unregistration after shutdown must not block.
	if hub.Register(context.Background(), newTestClient(hub, 1)) {
		t.Error("Register succeeded on a stopped hub")
	}
	hub.Unregister(c)
}

func TestHubString(t *testing.T) {
	if got := NewHub().String(); got != "pick-stream-hub" {
		t.Errorf("String() = %q", got)
	}
}
