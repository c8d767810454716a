// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package orchestrator resolves the card shown to a user: it asks the content
// proxy first when one is configured, falls back to the local selection
// engine, and attaches an illustration or a placeholder.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/selection"
)

// Card origins.
const (
	OriginRemote = "remote"
	OriginLocal  = "local"
)

// Default illustration size.
const (
	ImageWidth  = 720
	ImageHeight = 320
)

// Local is the on-device selection engine.
type Local interface {
	Select(ctx context.Context, date time.Time, theme string) (catalog.Item, bool)
	Refresh(ctx context.Context, date time.Time, theme string) (catalog.Item, bool)
}

// Remote is a content proxy.
type Remote interface {
	Content(ctx context.Context, theme, dateKey string, external, refresh bool) (catalog.Item, error)
	Image(ctx context.Context, req ImageRequest) (string, error)
}

// Options describe one card request.
type Options struct {
	Theme string

	// Date defaults to now.
	Date time.Time

	// Refresh re-rolls the text instead of returning the daily pick.
	Refresh bool

	// External asks the proxy to try external quote providers.
	External bool

	// Images fetches an illustration through the proxy.
	Images bool
}

// Card is the resolved display state.
type Card struct {
	DateKey      string       `json:"date_key"`
	Theme        string       `json:"theme"`
	Item         catalog.Item `json:"item"`
	Origin       string       `json:"origin"`
	ImageDataURL string       `json:"image_data_url"`

	// Placeholder is set when ImageDataURL is the generated gradient.
	Placeholder bool `json:"placeholder"`
}

// Orchestrator merges remote and local results.
type Orchestrator struct {
	local        Local
	remote       Remote
	defaultTheme string
	now          func() time.Time
}

// New creates an orchestrator. remote may be nil for local-only operation.
func New(local Local, remote Remote) *Orchestrator {
	return &Orchestrator{
		local:        local,
		remote:       remote,
		defaultTheme: string(catalog.DefaultTheme),
		now:          time.Now,
	}
}

// WithDefaultTheme sets the theme used when Options.Theme is blank.
func (o *Orchestrator) WithDefaultTheme(theme string) *Orchestrator {
	if strings.TrimSpace(theme) != "" {
		o.defaultTheme = theme
	}
	return o
}

// WithClock overrides the clock. Intended for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Card resolves the card for opts. It returns catalog.ErrNoData only when the
// proxy gave nothing and the local catalog is empty.
func (o *Orchestrator) Card(ctx context.Context, opts Options) (Card, error) {
	theme := strings.TrimSpace(opts.Theme)
	if theme == "" {
		theme = o.defaultTheme
	}
	date := opts.Date
	if date.IsZero() {
		date = o.now()
	}
	card := Card{DateKey: selection.DateKey(date), Theme: theme}

	if item, ok := o.remoteContent(ctx, theme, card.DateKey, opts); ok {
		card.Item, card.Origin = item, OriginRemote
	} else {
		pick := o.local.Select
		if opts.Refresh {
			pick = o.local.Refresh
		}
		item, ok := pick(ctx, date, theme)
		if !ok {
			return Card{}, fmt.Errorf("%w: %s", catalog.ErrNoData, theme)
		}
		card.Item, card.Origin = item, OriginLocal
	}

	card.ImageDataURL = o.image(ctx, theme, opts)
	if card.ImageDataURL == "" {
		card.ImageDataURL = Placeholder(theme)
		card.Placeholder = true
	}
	return card, nil
}

func (o *Orchestrator) remoteContent(ctx context.Context, theme, dateKey string, opts Options) (catalog.Item, bool) {
	if o.remote == nil {
		return catalog.Item{}, false
	}
	item, err := o.remote.Content(ctx, theme, dateKey, opts.External, opts.Refresh)
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("Proxy content failed, using local catalog")
		return catalog.Item{}, false
	}
	return item, true
}

// image returns "" when no illustration could be fetched.
func (o *Orchestrator) image(ctx context.Context, theme string, opts Options) string {
	if o.remote == nil || !opts.Images {
		return ""
	}
	dataURL, err := o.remote.Image(ctx, ImageRequest{
		Theme:  theme,
		Width:  ImageWidth,
		Height: ImageHeight,
		Seed:   fmt.Sprintf("%d-%d", o.now().UnixMilli(), rand.IntN(100000)),
	})
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("Image fetch failed, using placeholder")
		return ""
	}
	return dataURL
}
