// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Theme identifies one of the fixed content categories.
type Theme string

const (
	ThemeMovies         Theme = "movies"
	ThemeLiterature     Theme = "literature"
	ThemeLifeReflection Theme = "life-reflection"
)

// DefaultTheme is used for catalog lookup when a requested theme is unknown.
const DefaultTheme = ThemeLifeReflection

// themeAliases maps accepted spellings to canonical themes. The Chinese names
// are the keys older clients send.
var themeAliases = map[string]Theme{
	"movies":          ThemeMovies,
	"movie":           ThemeMovies,
	"电影":              ThemeMovies,
	"literature":      ThemeLiterature,
	"文学":              ThemeLiterature,
	"life-reflection": ThemeLifeReflection,
	"life":            ThemeLifeReflection,
	"quotes":          ThemeLifeReflection,
	"人生感悟":            ThemeLifeReflection,
}

// Themes returns the known themes in a stable order.
func Themes() []Theme {
	return []Theme{ThemeMovies, ThemeLiterature, ThemeLifeReflection}
}

// Normalize canonicalizes raw theme input: NFC, trimmed, lower-cased.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(raw)))
}

// Lookup resolves raw theme input to a known theme.
func Lookup(raw string) (Theme, bool) {
	t, ok := themeAliases[Normalize(raw)]
	return t, ok
}

// Key returns the string used to partition history and salts for a theme.
// Known themes (including aliases) collapse to their canonical name; unknown
// input is kept as its normalized form so its history stays separate from the
// default theme's.
func Key(raw string) string {
	if t, ok := Lookup(raw); ok {
		return string(t)
	}
	return Normalize(raw)
}
