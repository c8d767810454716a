// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package provider

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/tomtom215/dailycard/internal/catalog"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Feed reads "quote of the day" style RSS/Atom feeds configured per theme.
// The newest entry of the first feed that parses is used.
type Feed struct {
	feeds   map[string][]string
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFeed builds a feed provider. Keys of feeds are theme names or aliases.
func NewFeed(feeds map[string][]string, client *http.Client, timeout time.Duration) *Feed {
	byTheme := make(map[string][]string, len(feeds))
	for theme, urls := range feeds {
		key := catalog.Key(theme)
		byTheme[key] = append(byTheme[key], urls...)
	}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	if client != nil {
		parser.Client = client
	}
	return &Feed{feeds: byTheme, parser: parser, timeout: timeout}
}

func (f *Feed) Name() string { return "feed" }

func (f *Feed) FetchQuote(ctx context.Context, theme string) (Quote, error) {
	urls := f.feeds[catalog.Key(theme)]
	if len(urls) == 0 {
		return Quote{}, fmt.Errorf("no feeds configured for theme %q", theme)
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var errs []error
	for _, u := range urls {
		feed, err := f.parser.ParseURLWithContext(u, ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", u, err))
			continue
		}
		for _, item := range feed.Items {
			if q, ok := quoteFromItem(feed, item); ok {
				return q, nil
			}
		}
		errs = append(errs, fmt.Errorf("%s: %w", u, ErrEmptyQuote))
	}
	return Quote{}, errors.Join(errs...)
}

func quoteFromItem(feed *gofeed.Feed, item *gofeed.Item) (Quote, bool) {
	text := plainText(item.Description)
	if text == "" {
		text = plainText(item.Content)
	}
	if text == "" {
		text = plainText(item.Title)
	}
	if text == "" {
		return Quote{}, false
	}

	source := ""
	if item.Author != nil {
		source = item.Author.Name
	}
	if source == "" && text != plainText(item.Title) {
		source = plainText(item.Title)
	}
	if source == "" {
		source = feed.Title
	}
	return Quote{Text: text, Source: source, Provider: "feed"}, true
}

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTag.ReplaceAllString(s, "")))
}
