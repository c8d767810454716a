// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package events

import (
	"context"
	"sync"

	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
)

// Recorder subscribes to pick events and keeps running totals plus the latest
// pick per theme for the health endpoint. It runs as a supervised service.
type Recorder struct {
	bus *Bus

	mu       sync.RWMutex
	byOrigin map[string]int64
	latest   map[string]Pick
	ready    chan struct{}
	once     sync.Once
}

func NewRecorder(bus *Bus) *Recorder {
	return &Recorder{
		bus:      bus,
		byOrigin: make(map[string]int64),
		latest:   make(map[string]Pick),
		ready:    make(chan struct{}),
	}
}

// Serve consumes events until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context) error {
	msgs, err := r.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	r.once.Do(func() { close(r.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ctx.Err()
			}
			p, err := DecodePick(msg)
			if err != nil {
				logging.Warn().Err(err).Msg("Dropping malformed pick event")
				msg.Ack()
				continue
			}
			r.record(p)
			metrics.EventsConsumed.WithLabelValues(TopicPicks).Inc()
			msg.Ack()
		}
	}
}

// Ready is closed once the recorder is subscribed.
func (r *Recorder) Ready() <-chan struct{} { return r.ready }

func (r *Recorder) String() string { return "pick-event-recorder" }

func (r *Recorder) record(p Pick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrigin[p.Origin]++
	r.latest[p.Theme] = p
}

// Snapshot is a point-in-time copy of the recorder state.
type Snapshot struct {
	ByOrigin map[string]int64 `json:"by_origin"`
	Latest   map[string]Pick  `json:"latest"`
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Snapshot{
		ByOrigin: make(map[string]int64, len(r.byOrigin)),
		Latest:   make(map[string]Pick, len(r.latest)),
	}
	for k, v := range r.byOrigin {
		s.ByOrigin[k] = v
	}
	for k, v := range r.latest {
		s.Latest[k] = v
	}
	return s
}
