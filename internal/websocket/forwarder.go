// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package websocket

import (
	"context"

	"github.com/tomtom215/dailycard/internal/events"
	"github.com/tomtom215/dailycard/internal/logging"
)

// Forwarder relays pick events from the bus to a hub.
type Forwarder struct {
	bus   *events.Bus
	hub   *Hub
	ready chan struct{}
}

func NewForwarder(bus *events.Bus, hub *Hub) *Forwarder {
	return &Forwarder{bus: bus, hub: hub, ready: make(chan struct{})}
}

// Serve forwards until ctx is cancelled.
func (f *Forwarder) Serve(ctx context.Context) error {
	msgs, err := f.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	select {
	case <-f.ready:
	default:
		close(f.ready)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ctx.Err()
			}
			p, err := events.DecodePick(msg)
			msg.Ack()
			if err != nil {
				logging.Warn().Err(err).Msg("Dropping malformed pick event")
				continue
			}
			f.hub.BroadcastPick(p)
		}
	}
}

// Ready is closed once the forwarder is subscribed.
func (f *Forwarder) Ready() <-chan struct{} { return f.ready }

func (f *Forwarder) String() string { return "pick-stream-forwarder" }
