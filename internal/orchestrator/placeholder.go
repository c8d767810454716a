// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package orchestrator

import (
	"encoding/base64"
	"fmt"

	"github.com/tomtom215/dailycard/internal/catalog"
)

const placeholderSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="720" height="320">
  <defs>
    <linearGradient id="g" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0%%" stop-color="%s"/>
      <stop offset="100%%" stop-color="%s"/>
    </linearGradient>
  </defs>
  <rect x="0" y="0" width="100%%" height="100%%" fill="url(#g)"/>
</svg>`

var placeholderColors = map[catalog.Theme][2]string{
	catalog.ThemeMovies:         {"#1677ff", "#52c41a"},
	catalog.ThemeLiterature:     {"#722ed1", "#eb2f96"},
	catalog.ThemeLifeReflection: {"#fa8c16", "#f5222d"},
}

var defaultPlaceholderColors = [2]string{"#1677ff", "#d81e06"}

// Placeholder returns a theme-colored gradient SVG as a data URL.
func Placeholder(theme string) string {
	colors := defaultPlaceholderColors
	if t, ok := catalog.Lookup(theme); ok {
		colors = placeholderColors[t]
	}
	svg := fmt.Sprintf(placeholderSVG, colors[0], colors[1])
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
