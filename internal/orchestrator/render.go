// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package orchestrator

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomtom215/dailycard/internal/catalog"
)

// cardWidth is the rendered text width inside the border.
const cardWidth = 56

var themeColors = map[catalog.Theme]lipgloss.Color{
	catalog.ThemeMovies:         lipgloss.Color("33"),  // blue
	catalog.ThemeLiterature:     lipgloss.Color("134"), // purple
	catalog.ThemeLifeReflection: lipgloss.Color("208"), // orange
}

var (
	cardFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Width(cardWidth)

	dateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			MarginTop(1).
			MarginBottom(1)

	sourceStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245")).
			Align(lipgloss.Right)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// RenderCard draws the card for a terminal.
func RenderCard(c Card) string {
	accent := lipgloss.Color("62")
	if t, ok := catalog.Lookup(c.Theme); ok {
		accent = themeColors[t]
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		dateStyle.Render(c.DateKey),
		"  ",
		lipgloss.NewStyle().Foreground(accent).Render(catalog.Key(c.Theme)),
	)

	parts := []string{header, textStyle.Render(c.Item.Text)}
	if c.Item.Source != "" {
		parts = append(parts, sourceStyle.Width(cardWidth-4).Render("- "+c.Item.Source))
	}

	meta := []string{c.Item.ID, c.Origin}
	if c.Placeholder {
		meta = append(meta, "placeholder image")
	} else if c.ImageDataURL != "" {
		meta = append(meta, "image attached")
	}
	parts = append(parts, metaStyle.Render(strings.Join(meta, " · ")))

	return cardFrame.BorderForeground(accent).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
