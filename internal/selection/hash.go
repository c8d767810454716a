// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package selection

import (
	"unicode"
	"unicode/utf16"
)

// Hash is the 31-multiplier polynomial string hash over UTF-16 code units,
// wrapping at 32 bits. Characters outside the BMP contribute their two
// surrogate halves, so the value matches what browser clients compute for the
// same string. Salts hash canonical theme keys; see DailySalt.
func Hash(s string) uint32 {
	var h uint32
	for _, r := range s {
		if r1, r2 := utf16.EncodeRune(r); r1 != unicode.ReplacementChar {
			h = h*31 + uint32(r1)
			h = h*31 + uint32(r2)
			continue
		}
		h = h*31 + uint32(r)
	}
	return h
}

// StableNoise maps an id hash and a salt to a value in [0, 0.999].
func StableNoise(idHash, salt uint32) float64 {
	return float64((idHash^salt)%1000) / 1000
}

// DailySalt is the noise salt for the first pick of a day. The engine passes
// the canonical theme key (catalog.Key), so an alias such as "电影" is salted
// as "movies" and ranks exactly like its canonical name. A client that salts
// with the raw alias text gets a different order for alias requests.
func DailySalt(dateKey, theme string) uint32 {
	return Hash(dateKey + theme)
}

// RefreshSalt is the noise salt for re-rolls; it differs from DailySalt so a
// refresh reorders the catalog. theme is the canonical key, as for DailySalt.
func RefreshSalt(dateKey, theme string) uint32 {
	return Hash(dateKey + theme + "|refresh")
}
