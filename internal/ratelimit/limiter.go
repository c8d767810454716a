// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package ratelimit implements the per-client fixed-window request limiter
// that sits in front of the content proxy.
//
// Each key (client address) gets a window that opens on its first request and
// admits at most Limit requests until Window has elapsed; the next request
// after that opens a fresh window. Rejected requests do not count against the
// window.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 100
	DefaultWindow = 60 * time.Second
)

type window struct {
	start time.Time
	count int
}

// Limiter is safe for concurrent use; the check-and-increment of a key is
// atomic.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]*window
}

// New creates a limiter admitting limit requests per window per key.
// Non-positive arguments fall back to the defaults.
func New(limit int, win time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if win <= 0 {
		win = DefaultWindow
	}
	return &Limiter{
		limit:   limit,
		window:  win,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
	return l
}

// Allow records a request for key. When the request is rejected it also
// returns how long until the key's window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > l.window {
		l.windows[key] = &window{start: now, count: 1}
		return true, 0
	}
	if w.count >= l.limit {
		return false, w.start.Add(l.window).Sub(now)
	}
	w.count++
	return true, 0
}

// Limit returns the per-window request budget.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Cleanup forgets keys whose window has elapsed and returns how many were
// dropped. Run it periodically to bound memory.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	removed := 0
	for k, w := range l.windows {
		if now.Sub(w.start) > l.window {
			delete(l.windows, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
