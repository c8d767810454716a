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

// DefaultQuotableURL is the quotable random-quote endpoint.
const DefaultQuotableURL = "https://api.quotable.io/random"

// Quotable queries the quotable API by tag.
type Quotable struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewQuotable(baseURL string, client *http.Client, timeout time.Duration) *Quotable {
	if baseURL == "" {
		baseURL = DefaultQuotableURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Quotable{BaseURL: baseURL, Client: client, Timeout: timeout}
}

func (q *Quotable) Name() string { return "quotable" }

// QuotableTag returns the tag sent for a theme.
func QuotableTag(theme string) string {
	t, _ := catalog.Lookup(theme)
	switch t {
	case catalog.ThemeLiterature:
		return "wisdom"
	case catalog.ThemeLifeReflection:
		return "life"
	default:
		return "famous-quotes"
	}
}

func (q *Quotable) FetchQuote(ctx context.Context, theme string) (Quote, error) {
	reqURL, err := withQuery(q.BaseURL, "tags", QuotableTag(theme))
	if err != nil {
		return Quote{}, err
	}

	var body struct {
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	if err := getJSON(ctx, q.Client, q.Timeout, reqURL, &body); err != nil {
		return Quote{}, err
	}
	text := strings.TrimSpace(body.Content)
	if text == "" {
		return Quote{}, ErrEmptyQuote
	}
	source := strings.TrimSpace(body.Author)
	if source == "" {
		source = q.Name()
	}
	return Quote{Text: text, Source: source, Provider: q.Name()}, nil
}
