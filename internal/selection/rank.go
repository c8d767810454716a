// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package selection

import (
	"sort"

	"github.com/tomtom215/dailycard/internal/catalog"
)

const (
	// UsedPenalty is subtracted from items already shown for the theme.
	UsedPenalty = 0.2

	// NoiseWeight scales StableNoise into the score.
	NoiseWeight = 0.1
)

// UsedSet is the membership view of a theme's used id history.
type UsedSet map[string]struct{}

// NewUsedSet builds a set from the stored id list. Duplicates collapse.
func NewUsedSet(ids []string) UsedSet {
	s := make(UsedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id has been used.
func (s UsedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Score is base - penalty(if used) + noise*NoiseWeight.
func Score(it catalog.Item, used UsedSet, salt uint32) float64 {
	score := it.BaseScore()
	if used.Has(it.ID) {
		score -= UsedPenalty
	}
	return score + StableNoise(Hash(it.ID), salt)*NoiseWeight
}

// Rank returns a copy of items ordered by descending Score. Ties keep catalog
// order. The input slice is not modified.
func Rank(items []catalog.Item, used UsedSet, salt uint32) []catalog.Item {
	type scored struct {
		item  catalog.Item
		score float64
	}
	tmp := make([]scored, len(items))
	for i, it := range items {
		tmp[i] = scored{item: it, score: Score(it, used, salt)}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		return tmp[i].score > tmp[j].score
	})

	out := make([]catalog.Item, len(tmp))
	for i, s := range tmp {
		out[i] = s.item
	}
	return out
}

// PickDaily returns the highest ranked unused item, or the top item when
// everything has been used. ranked must not be empty.
func PickDaily(ranked []catalog.Item, used UsedSet) catalog.Item {
	for _, it := range ranked {
		if !used.Has(it.ID) {
			return it
		}
	}
	return ranked[0]
}

// PickRefresh returns the highest ranked item that is unused and not
// avoidID, then any item that is not avoidID, then the top item. ranked must
// not be empty.
func PickRefresh(ranked []catalog.Item, used UsedSet, avoidID string) catalog.Item {
	for _, it := range ranked {
		if !used.Has(it.ID) && it.ID != avoidID {
			return it
		}
	}
	for _, it := range ranked {
		if it.ID != avoidID {
			return it
		}
	}
	return ranked[0]
}
