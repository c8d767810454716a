// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package provider

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
)

// BreakerConfig tunes the per-provider circuit breaker.
type BreakerConfig struct {
	// MinRequests is the number of calls in an interval before the failure
	// ratio is considered.
	MinRequests uint32
	// FailureRatio at or above which the circuit opens.
	FailureRatio float64
	// Interval after which closed-state counts reset.
	Interval time.Duration
	// Timeout the circuit stays open before probing again.
	Timeout time.Duration
	// HalfOpenRequests admitted while probing.
	HalfOpenRequests uint32
}

// DefaultBreakerConfig opens after 60% failures over at least 10 calls and
// lets a trial call through after 2 minutes.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MinRequests:      10,
		FailureRatio:     0.6,
		Interval:         time.Minute,
		Timeout:          2 * time.Minute,
		HalfOpenRequests: 3,
	}
}

type breakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[Quote]
}

// WithCircuitBreaker wraps p so repeated failures short-circuit it.
// Caller cancellation is not counted as an upstream failure.
func WithCircuitBreaker(p Provider, cfg BreakerConfig) Provider {
	name := "provider-" + p.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[Quote](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).Msg("Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", stateToString(from)).Str("to", stateToString(to)).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &breakerProvider{next: p, cb: cb}
}

func (b *breakerProvider) Name() string { return b.next.Name() }

func (b *breakerProvider) FetchQuote(ctx context.Context, theme string) (Quote, error) {
	return b.cb.Execute(func() (Quote, error) {
		return b.next.FetchQuote(ctx, theme)
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
