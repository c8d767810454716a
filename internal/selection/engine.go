// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package selection picks one catalog item per (theme, day).
//
// The pick is a pure function of the catalog, the theme's used-id history and
// the day: every item is scored as its quality prior, minus a penalty when it
// was shown before, plus a small deterministic noise term salted by the date
// and theme. The best unused item wins and is cached as the day's pick, so
// asking again on the same day returns the same card. Refresh re-rolls with a
// different salt without replacing the cached daily pick.
package selection

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
)

// Catalog resolves raw theme input to its items, falling back to the default
// theme for unknown input.
type Catalog interface {
	Items(theme string) []catalog.Item
}

// History is the per-theme record the engine reads and mutates.
type History interface {
	UsedIDs(ctx context.Context, theme string) []string
	AddUsedID(ctx context.Context, theme, id string)
	DailyPick(ctx context.Context, theme, dateKey string) (catalog.Item, bool)
	SetDailyPick(ctx context.Context, theme, dateKey string, item catalog.Item)
}

// Selection modes reported to metrics.
const (
	ModeDaily   = "daily"
	ModeCached  = "cached"
	ModeRefresh = "refresh"
	ModeEmpty   = "empty"
)

// Engine runs selections against one catalog and one history.
type Engine struct {
	catalog Catalog
	history History

	// mu makes each read-rank-record sequence atomic when the engine is shared
	// between concurrent requests.
	mu sync.Mutex
}

func NewEngine(c Catalog, h History) *Engine {
	return &Engine{catalog: c, history: h}
}

// Select returns the daily pick for (date, theme), computing and caching it on
// first use. ok is false only when the resolved catalog is empty.
func (e *Engine) Select(ctx context.Context, date time.Time, theme string) (catalog.Item, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := catalog.Key(theme)
	dateKey := DateKey(date)

	if cached, ok := e.history.DailyPick(ctx, key, dateKey); ok {
		metrics.RecordSelection(metricTheme(theme), ModeCached)
		return cached, true
	}

	items := e.catalog.Items(theme)
	if len(items) == 0 {
		metrics.RecordSelection(metricTheme(theme), ModeEmpty)
		return catalog.Item{}, false
	}

	used := NewUsedSet(e.history.UsedIDs(ctx, key))
	ranked := Rank(items, used, DailySalt(dateKey, key))
	pick := PickDaily(ranked, used)

	e.history.AddUsedID(ctx, key, pick.ID)
	e.history.SetDailyPick(ctx, key, dateKey, pick)

	metrics.RecordSelection(metricTheme(theme), ModeDaily)
	logging.CtxDebug(ctx).Str("theme", key).Str("date", dateKey).Str("id", pick.ID).Msg("Daily pick selected")
	return pick, true
}

// Refresh re-rolls the pick for (date, theme) using the refresh salt and
// avoiding the cached daily pick when an alternative exists. The result is
// recorded as used but never replaces the cached daily pick.
func (e *Engine) Refresh(ctx context.Context, date time.Time, theme string) (catalog.Item, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := catalog.Key(theme)
	dateKey := DateKey(date)

	items := e.catalog.Items(theme)
	if len(items) == 0 {
		metrics.RecordSelection(metricTheme(theme), ModeEmpty)
		return catalog.Item{}, false
	}

	var avoid string
	if daily, ok := e.history.DailyPick(ctx, key, dateKey); ok {
		avoid = daily.ID
	}

	used := NewUsedSet(e.history.UsedIDs(ctx, key))
	ranked := Rank(items, used, RefreshSalt(dateKey, key))
	pick := PickRefresh(ranked, used, avoid)

	e.history.AddUsedID(ctx, key, pick.ID)

	metrics.RecordSelection(metricTheme(theme), ModeRefresh)
	logging.CtxDebug(ctx).Str("theme", key).Str("date", dateKey).Str("id", pick.ID).Msg("Refresh pick selected")
	return pick, true
}

// metricTheme bounds label cardinality to the known themes.
func metricTheme(raw string) string {
	if t, ok := catalog.Lookup(raw); ok {
		return string(t)
	}
	return "other"
}
