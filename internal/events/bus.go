// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package events carries "content picked" notifications from the proxy to
// in-process subscribers over a Watermill Go-channel pub/sub.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
)

// TopicPicks receives one message per resolved content response.
const TopicPicks = "dailycard.content.picked"

// Origins of a pick.
const (
	OriginCache    = "cache"
	OriginExternal = "external"
	OriginLocal    = "local"
	OriginRefresh  = "refresh"
)

// Pick is the payload published on TopicPicks.
type Pick struct {
	Theme     string    `json:"theme"`
	DateKey   string    `json:"date_key"`
	ItemID    string    `json:"item_id"`
	Origin    string    `json:"origin"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

// Bus wraps a Go-channel pub/sub. Messages published with no subscriber are
// dropped.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a bus that logs through logger (nil: the global logger).
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = logging.NewSlogLogger()
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))
	return &Bus{pubsub: pubsub}
}

// PublishPick encodes p and publishes it on TopicPicks.
func (b *Bus) PublishPick(ctx context.Context, p Pick) error {
	if p.RequestID == "" {
		p.RequestID = logging.RequestIDFromContext(ctx)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pick event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(TopicPicks, msg); err != nil {
		return fmt.Errorf("publish pick event: %w", err)
	}
	metrics.EventsPublished.WithLabelValues(TopicPicks).Inc()
	return nil
}

// Subscribe returns the message stream for TopicPicks; it closes when ctx is
// done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicPicks)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// DecodePick parses a TopicPicks payload.
func DecodePick(msg *message.Message) (Pick, error) {
	var p Pick
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return Pick{}, fmt.Errorf("decode pick event %s: %w", msg.UUID, err)
	}
	return p, nil
}
