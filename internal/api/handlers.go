// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/dailycard/internal/cache"
	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/events"
	"github.com/tomtom215/dailycard/internal/imagerelay"
	"github.com/tomtom215/dailycard/internal/proxy"
	"github.com/tomtom215/dailycard/internal/selection"
	ws "github.com/tomtom215/dailycard/internal/websocket"
)

// DefaultImageTheme seeds picsum when no theme is given.
const DefaultImageTheme = "random"

// ContentService resolves /api/content requests.
type ContentService interface {
	Content(ctx context.Context, req proxy.ContentRequest) (proxy.Result, error)
	CacheStats() cache.Stats
}

// ImageFetcher resolves /api/image requests.
type ImageFetcher interface {
	Fetch(ctx context.Context, req imagerelay.Request) (string, error)
}

// CatalogSizer reports per-theme catalog sizes for the health endpoint.
type CatalogSizer interface {
	Sizes() map[catalog.Theme]int
}

// PickStats reports pick event totals for the health endpoint.
type PickStats interface {
	Snapshot() events.Snapshot
}

// Handler serves the API endpoints.
type Handler struct {
	content   ContentService
	images    ImageFetcher
	catalog   CatalogSizer
	picks     PickStats
	stream    *ws.Hub
	upgrader  websocket.Upgrader
	location  *time.Location
	startTime time.Time
	version   string
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithPickStats adds pick event totals to /api/health.
func WithPickStats(p PickStats) HandlerOption {
	return func(h *Handler) { h.picks = p }
}

// WithLocation sets the location date parameters are interpreted in.
func WithLocation(loc *time.Location) HandlerOption {
	return func(h *Handler) { h.location = loc }
}

// WithVersion sets the version reported by /api/health.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

func NewHandler(content ContentService, images ImageFetcher, sizes CatalogSizer, opts ...HandlerOption) *Handler {
	h := &Handler{
		content:   content,
		images:    images,
		catalog:   sizes,
		location:  time.Local,
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Content handles content requests
//
// @Summary Get the daily card content
// @Description Returns the deterministic pick for a theme and day, optionally from external quote providers
// @Tags Content
// @Produce json
// @Param theme query string false "Theme or alias (movies, literature, life-reflection, 电影, 文学, 人生感悟)"
// @Param date query string false "Day as YYYY-MM-DD (default today)"
// @Param ext query string false "1 to try external quote providers first" Enums(0, 1)
// @Param refresh query string false "1 to re-roll without replacing the daily pick" Enums(0, 1)
// @Success 200 {object} Response{data=catalog.Item}
// @Failure 400 {object} Response "invalid_params"
// @Failure 404 {object} Response "no_data"
// @Failure 429 {object} Response "rate_limited"
// @Router /api/content [get]
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	q := parseContentQuery(r)
	if apiErr := validateRequest(&q); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, CodeInvalidParams, apiErr.Details, errors.New(apiErr.Message))
		return
	}

	req := proxy.ContentRequest{
		Theme:    q.Theme,
		External: q.Ext == "1",
		Refresh:  q.Refresh == "1",
	}
	if q.Date != "" {
		date, err := selection.ParseDateKey(q.Date, h.location)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, CodeInvalidParams, err)
			return
		}
		req.Date = date
	}

	res, err := h.content.Content(r.Context(), req)
	switch {
	case err == nil:
		respondSuccess(w, r, res.Item)
	case errors.Is(err, catalog.ErrNoData):
		respondError(w, r, http.StatusNotFound, CodeNoData, nil)
	default:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, err)
	}
}

// Image handles image relay requests
//
// @Summary Relay an illustration
// @Description Fetches a seeded random image (or a query-matched stock photo) and returns it as a base64 data URL
// @Tags Content
// @Produce json
// @Param theme query string false "Theme used in the image seed" default(random)
// @Param w query int false "Width in pixels, clamped to [1,4096] (0 becomes 1); missing or non-numeric uses the default" default(720)
// @Param h query int false "Height in pixels, clamped to [1,4096] (0 becomes 1); missing or non-numeric uses the default" default(320)
// @Param seed query string false "Seed (default current unix millis)"
// @Param query query string false "Search terms; switches to the query-matched source"
// @Success 200 {object} Response "dataUrl holds the image"
// @Failure 400 {object} Response "invalid_params"
// @Failure 429 {object} Response "rate_limited"
// @Failure 502 {object} Response "image_fetch_failed"
// @Router /api/image [get]
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	q := parseImageQuery(r)
	if apiErr := validateRequest(&q); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, CodeInvalidParams, apiErr.Details, errors.New(apiErr.Message))
		return
	}
	if q.Theme == "" {
		q.Theme = DefaultImageTheme
	}

	dataURL, err := h.images.Fetch(r.Context(), imagerelay.Request{
		Theme:  q.Theme,
		Width:  q.Width,
		Height: q.Height,
		Seed:   q.Seed,
		Query:  q.Query,
	})
	if err != nil {
		respondError(w, r, http.StatusBadGateway, CodeImageFetchFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, &Response{Status: StatusSuccess, DataURL: dataURL})
}

// HealthStatus is the /api/health payload.
type HealthStatus struct {
	Status        string           `json:"status"`
	Version       string           `json:"version"`
	Uptime        float64          `json:"uptime_seconds"`
	Catalog       map[string]int   `json:"catalog"`
	ResponseCache cache.Stats      `json:"response_cache"`
	Picks         *events.Snapshot `json:"picks,omitempty"`
}

// Health handles health check requests
//
// @Summary Service health
// @Description Liveness plus catalog sizes, response cache counters and pick totals. Status is degraded when any theme catalog is empty.
// @Tags Core
// @Produce json
// @Success 200 {object} Response{data=HealthStatus}
// @Router /api/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Seconds(),
		Catalog:       make(map[string]int),
		ResponseCache: h.content.CacheStats(),
	}
	for theme, n := range h.catalog.Sizes() {
		status.Catalog[string(theme)] = n
		if n == 0 {
			status.Status = "degraded"
		}
	}
	if h.picks != nil {
		snap := h.picks.Snapshot()
		status.Picks = &snap
	}
	respondSuccess(w, r, status)
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, CodeNotFound, nil)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, OPTIONS")
	respondError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, nil)
}

// RateLimited is the limiter's rejection handler.
func (h *Handler) RateLimited(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, nil)
}
