// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval spaces outbound calls to one provider.
const DefaultMinInterval = 250 * time.Millisecond

type throttledProvider struct {
	next    Provider
	limiter *rate.Limiter
	maxWait time.Duration
}

// WithMinInterval spaces calls to p at least interval apart. A call waits for
// its turn for up to maxWait (DefaultTimeout when not positive); a call whose
// turn is further out than that fails with ErrThrottled.
func WithMinInterval(p Provider, interval, maxWait time.Duration) Provider {
	if interval <= 0 {
		return p
	}
	if maxWait <= 0 {
		maxWait = DefaultTimeout
	}
	return &throttledProvider{
		next:    p,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		maxWait: maxWait,
	}
}

func (t *throttledProvider) Name() string { return t.next.Name() }

func (t *throttledProvider) FetchQuote(ctx context.Context, theme string) (Quote, error) {
	waitCtx, cancel := context.WithTimeout(ctx, t.maxWait)
	defer cancel()
	if err := t.limiter.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return Quote{}, ctx.Err()
		}
		return Quote{}, ErrThrottled
	}
	return t.next.FetchQuote(ctx, theme)
}
