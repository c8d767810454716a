// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package catalog holds the read-only content catalogs that daily cards are
// picked from, keyed by theme.
//
// Catalogs are loaded once at startup (from the embedded presets or from a
// directory of per-theme documents) and never mutated afterwards, so a
// *Catalog is safe for concurrent reads.
package catalog

import "errors"

// DefaultBaseScore is the quality prior used when an item has no score.
const DefaultBaseScore = 0.5

// ErrNoData is returned when a theme resolves to an empty catalog.
var ErrNoData = errors.New("catalog: no data for theme")

// Item is a single pickable catalog entry.
//
// Score is a pointer so that "not set" (which ranks as DefaultBaseScore) can be
// told apart from an explicit 0.
type Item struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Image   string   `json:"image" yaml:"image"`
	Source  string   `json:"source" yaml:"source"`
	License string   `json:"license" yaml:"license"`
	Score   *float64 `json:"score,omitempty" yaml:"score"`
	Tags    []string `json:"tags" yaml:"tags"`
	Lang    string   `json:"lang" yaml:"lang"`
}

// BaseScore returns the item's quality prior, DefaultBaseScore when unset.
func (it Item) BaseScore() float64 {
	if it.Score == nil {
		return DefaultBaseScore
	}
	return *it.Score
}

// Float returns a pointer to v. Handy for building items in code and tests.
func Float(v float64) *float64 {
	return &v
}

// Document is the on-disk shape of a per-theme catalog file.
type Document struct {
	Items []Item `json:"items" yaml:"items"`
}
