// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package proxy resolves content requests for the HTTP surface.
//
// A request is answered from the response cache when possible, then from the
// external quote providers when the caller opted in, and finally from the
// local selection engine. Refresh requests bypass the cache in both
// directions.
package proxy

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/dailycard/internal/cache"
	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/events"
	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
	"github.com/tomtom215/dailycard/internal/provider"
	"github.com/tomtom215/dailycard/internal/selection"
)

const (
	// ExternalScore is the quality prior assigned to provider quotes.
	ExternalScore = 0.85

	// ExternalLicense marks provider quotes whose license is not known.
	ExternalLicense = "unknown"

	DefaultLocale = "zh"
)

// Picker is the local selection tier.
type Picker interface {
	Select(ctx context.Context, date time.Time, theme string) (catalog.Item, bool)
	Refresh(ctx context.Context, date time.Time, theme string) (catalog.Item, bool)
}

// QuoteSource is the external tier.
type QuoteSource interface {
	FetchQuote(ctx context.Context, theme string) (provider.Quote, error)
}

// Publisher receives one event per answered request.
type Publisher interface {
	PublishPick(ctx context.Context, p events.Pick) error
}

type Config struct {
	// Locale is the primary locale stamped on external items.
	Locale string

	// ExternalEnabled gates the provider tier regardless of the request flag.
	ExternalEnabled bool

	// CacheTTL bounds response cache entries; zero keeps them until restart.
	CacheTTL time.Duration
}

// ContentRequest is one /api/content call. A zero Date means today.
type ContentRequest struct {
	Theme    string
	Date     time.Time
	External bool
	Refresh  bool
}

// Result is a resolved item plus where it came from.
type Result struct {
	Item    catalog.Item
	DateKey string
	Origin  string
}

type Service struct {
	cfg       Config
	picker    Picker
	quotes    QuoteSource
	responses *cache.Cache[catalog.Item]
	publisher Publisher
	now       func() time.Time
}

// New creates a service. quotes may be nil, which disables the external tier.
func New(cfg Config, picker Picker, quotes QuoteSource) *Service {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	return &Service{
		cfg:       cfg,
		picker:    picker,
		quotes:    quotes,
		responses: cache.New[catalog.Item](cfg.CacheTTL),
		now:       time.Now,
	}
}

// WithPublisher attaches an event publisher.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// WithClock overrides the clock used for the default date.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Content resolves req. It returns catalog.ErrNoData when every tier came up
// empty.
func (s *Service) Content(ctx context.Context, req ContentRequest) (Result, error) {
	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		theme = string(catalog.DefaultTheme)
	}
	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	dateKey := selection.DateKey(date)
	key := CacheKey(theme, dateKey, req.External)

	if !req.Refresh {
		if item, ok := s.responses.Get(key); ok {
			metrics.RecordResponseCache(true)
			return s.finish(ctx, theme, Result{Item: item, DateKey: dateKey, Origin: events.OriginCache}), nil
		}
		metrics.RecordResponseCache(false)
	}

	// cacheable is false when no provider reached its upstream, so a later
	// request retries them instead of finding the local fallback cached.
	cacheable := !req.Refresh
	if req.External && s.cfg.ExternalEnabled && s.quotes != nil {
		q, err := s.quotes.FetchQuote(ctx, catalog.Key(theme))
		if err == nil {
			item := ExternalItem(q, s.cfg.Locale)
			s.store(key, item, cacheable)
			return s.finish(ctx, theme, Result{Item: item, DateKey: dateKey, Origin: events.OriginExternal}), nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if errors.Is(err, provider.ErrRejected) {
			cacheable = false
		}
		logging.CtxWarn(ctx).Err(err).Str("theme", theme).Msg("External quote providers failed, using local catalog")
	}

	var (
		item   catalog.Item
		ok     bool
		origin = events.OriginLocal
	)
	if req.Refresh {
		item, ok = s.picker.Refresh(ctx, date, theme)
		origin = events.OriginRefresh
	} else {
		item, ok = s.picker.Select(ctx, date, theme)
	}
	if !ok {
		return Result{}, catalog.ErrNoData
	}
	s.store(key, item, cacheable)
	return s.finish(ctx, theme, Result{Item: item, DateKey: dateKey, Origin: origin}), nil
}

// CleanupCache drops expired response cache entries.
func (s *Service) CleanupCache() int {
	n := s.responses.Cleanup()
	metrics.ResponseCacheEntries.Set(float64(s.responses.Len()))
	return n
}

// CacheStats reports response cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.responses.Stats()
}

func (s *Service) store(key string, item catalog.Item, cacheable bool) {
	if !cacheable {
		return
	}
	s.responses.Set(key, item)
	metrics.ResponseCacheEntries.Set(float64(s.responses.Len()))
}

func (s *Service) finish(ctx context.Context, theme string, r Result) Result {
	if s.publisher == nil {
		return r
	}
	err := s.publisher.PublishPick(ctx, events.Pick{
		Theme:   catalog.Key(theme),
		DateKey: r.DateKey,
		ItemID:  r.Item.ID,
		Origin:  r.Origin,
		At:      s.now().UTC(),
	})
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Msg("Failed to publish pick event")
	}
	return r
}

// CacheKey is the response cache key for one request shape.
func CacheKey(theme, dateKey string, external bool) string {
	mode := "local"
	if external {
		mode = "ext"
	}
	return catalog.Key(theme) + "|" + dateKey + "|" + mode
}

// ExternalItem converts a provider quote into a catalog item whose id is
// derived from the text, so the same quote always maps to the same id.
func ExternalItem(q provider.Quote, locale string) catalog.Item {
	if locale == "" {
		locale = DefaultLocale
	}
	return catalog.Item{
		ID:      "ext-" + strconv.FormatUint(uint64(selection.Hash(q.Text)), 10),
		Text:    q.Text,
		Image:   "",
		Source:  q.Source,
		License: ExternalLicense,
		Score:   catalog.Float(ExternalScore),
		Tags:    []string{},
		Lang:    locale,
	}
}
