// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package provider fetches live quotes from external services.
//
// Providers are tried in order by a Chain; the first one to return a quote
// wins and the rest are never called. Each built-in provider is wrapped in a
// circuit breaker and an outbound politeness limiter so a failing or slow
// upstream is skipped quickly instead of costing every request its timeout.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
)

var (
	// ErrUnavailable means no provider produced a quote.
	ErrUnavailable = errors.New("provider: no quote available")

	// ErrThrottled is returned when a provider is called again before its
	// minimum interval has passed.
	ErrThrottled = errors.New("provider: throttled")

	// ErrEmptyQuote is returned for a well-formed response without text.
	ErrEmptyQuote = errors.New("provider: empty quote")

	// ErrRejected is added to a chain failure when no provider reached its
	// upstream: every one was throttled or short-circuited by its breaker.
	ErrRejected = errors.New("provider: every provider rejected the call")
)

// Quote is one externally sourced text.
type Quote struct {
	Text     string
	Source   string
	Provider string
}

// Provider fetches a quote for a theme key (see catalog.Key).
type Provider interface {
	Name() string
	FetchQuote(ctx context.Context, theme string) (Quote, error)
}

// Chain tries providers in order and returns the first success.
type Chain []Provider

// FetchQuote walks the chain. The returned error wraps ErrUnavailable and
// every provider's failure, plus ErrRejected when no upstream was reached.
func (c Chain) FetchQuote(ctx context.Context, theme string) (Quote, error) {
	errs := []error{ErrUnavailable}
	rejected := len(c) > 0
	for _, p := range c {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			rejected = false
			break
		}

		start := time.Now()
		q, err := p.FetchQuote(ctx, theme)
		elapsed := time.Since(start)
		if err == nil && strings.TrimSpace(q.Text) == "" {
			err = ErrEmptyQuote
		}
		if err != nil {
			result := resultLabel(err)
			if result == "failure" {
				rejected = false
			} else {
				elapsed = 0
			}
			metrics.RecordProviderRequest(p.Name(), result, elapsed)
			logging.CtxDebug(ctx).Err(err).Str("provider", p.Name()).Str("theme", theme).
				Msg("Quote provider failed, trying next")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		metrics.RecordProviderRequest(p.Name(), "success", elapsed)
		if q.Provider == "" {
			q.Provider = p.Name()
		}
		return q, nil
	}
	if rejected {
		errs = append(errs, ErrRejected)
	}
	return Quote{}, errors.Join(errs...)
}

// Name implements Provider so chains can nest.
func (c Chain) Name() string { return "chain" }

func resultLabel(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	case errors.Is(err, ErrThrottled):
		return "throttled"
	default:
		return "failure"
	}
}
