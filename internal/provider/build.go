// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package provider

import (
	"net/http"
	"time"
)

// Config describes the default provider chain.
type Config struct {
	HitokotoURL string
	QuotableURL string
	Feeds       map[string][]string
	Timeout     time.Duration
	MinInterval time.Duration
	Breaker     BreakerConfig
	Client      *http.Client
}

// NewChain builds hitokoto -> quotable -> feeds (when any are configured),
// each guarded by a throttle and a circuit breaker. A throttled call waits at
// most Timeout for its turn.
func NewChain(cfg Config) Chain {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	base := []Provider{
		NewHitokoto(cfg.HitokotoURL, client, cfg.Timeout),
		NewQuotable(cfg.QuotableURL, client, cfg.Timeout),
	}
	if len(cfg.Feeds) > 0 {
		base = append(base, NewFeed(cfg.Feeds, client, cfg.Timeout))
	}

	chain := make(Chain, 0, len(base))
	for _, p := range base {
		chain = append(chain, WithMinInterval(WithCircuitBreaker(p, cfg.Breaker), cfg.MinInterval, cfg.Timeout))
	}
	return chain
}
