// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/dailycard/internal/catalog"
)

// DefaultHitokotoURL is the public hitokoto sentence API.
const DefaultHitokotoURL = "https://v1.hitokoto.cn/"

// hitokotoCategories maps themes to hitokoto sentence categories
// (h: film, d: literature, k: philosophy).
var hitokotoCategories = map[catalog.Theme]string{
	catalog.ThemeMovies:         "h",
	catalog.ThemeLiterature:     "d",
	catalog.ThemeLifeReflection: "k",
}

// Hitokoto queries the hitokoto API by category.
type Hitokoto struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewHitokoto(baseURL string, client *http.Client, timeout time.Duration) *Hitokoto {
	if baseURL == "" {
		baseURL = DefaultHitokotoURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Hitokoto{BaseURL: baseURL, Client: client, Timeout: timeout}
}

func (h *Hitokoto) Name() string { return "hitokoto" }

// HitokotoCategory returns the category sent for a theme; unknown themes use
// the philosophy category.
func HitokotoCategory(theme string) string {
	if t, ok := catalog.Lookup(theme); ok {
		return hitokotoCategories[t]
	}
	return "k"
}

func (h *Hitokoto) FetchQuote(ctx context.Context, theme string) (Quote, error) {
	reqURL, err := withQuery(h.BaseURL, "c", HitokotoCategory(theme))
	if err != nil {
		return Quote{}, err
	}

	var body struct {
		Hitokoto string `json:"hitokoto"`
		From     string `json:"from"`
	}
	if err := getJSON(ctx, h.Client, h.Timeout, reqURL, &body); err != nil {
		return Quote{}, err
	}
	text := strings.TrimSpace(body.Hitokoto)
	if text == "" {
		return Quote{}, ErrEmptyQuote
	}
	source := strings.TrimSpace(body.From)
	if source == "" {
		source = h.Name()
	}
	return Quote{Text: text, Source: source, Provider: h.Name()}, nil
}
