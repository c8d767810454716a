// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package history

import (
	"context"
	"errors"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/logging"
)

// UsedKey is the store key of a theme's used id list.
func UsedKey(theme string) string {
	return "used:" + theme
}

// DailyKey is the store key of a theme's pick for one day.
func DailyKey(theme, dateKey string) string {
	return "daily:" + theme + ":" + dateKey
}

// History is the typed, fail-soft view over a Store.
type History struct {
	store Store
}

func New(store Store) *History {
	return &History{store: store}
}

// UsedIDs returns the theme's used ids in insertion order. Missing keys and
// unreadable or corrupt values yield an empty list.
func (h *History) UsedIDs(ctx context.Context, theme string) []string {
	raw, err := h.store.Get(ctx, UsedKey(theme))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("History read failed, treating as empty")
		}
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("Corrupt used-id history, treating as empty")
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// AddUsedID appends id to the theme's history unless already present and
// persists the list. Write failures are logged and dropped.
func (h *History) AddUsedID(ctx context.Context, theme, id string) {
	ids := h.UsedIDs(ctx, theme)
	for _, existing := range ids {
		if existing == id {
			return
		}
	}
	ids = append(ids, id)

	raw, err := json.Marshal(ids)
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("Failed to encode used-id history")
		return
	}
	if err := h.store.Set(ctx, UsedKey(theme), raw); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("History write failed, continuing without persistence")
	}
}

// DailyPick returns the cached pick for (theme, dateKey).
func (h *History) DailyPick(ctx context.Context, theme, dateKey string) (catalog.Item, bool) {
	raw, err := h.store.Get(ctx, DailyKey(theme, dateKey))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.CtxWarn(ctx).Err(err).Str("theme", theme).Str("date", dateKey).
				Msg("Daily pick read failed, treating as absent")
		}
		return catalog.Item{}, false
	}
	var item catalog.Item
	if err := json.Unmarshal(raw, &item); err != nil || item.ID == "" {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Str("date", dateKey).
			Msg("Corrupt daily pick, treating as absent")
		return catalog.Item{}, false
	}
	return item, true
}

// SetDailyPick caches item as the pick for (theme, dateKey). Best effort.
func (h *History) SetDailyPick(ctx context.Context, theme, dateKey string, item catalog.Item) {
	raw, err := json.Marshal(item)
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("Failed to encode daily pick")
		return
	}
	if err := h.store.Set(ctx, DailyKey(theme, dateKey), raw); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Str("date", dateKey).
			Msg("Daily pick write failed, continuing without persistence")
	}
}

// Close closes the underlying store.
func (h *History) Close() error {
	return h.store.Close()
}
