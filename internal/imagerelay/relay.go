// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package imagerelay fetches a card illustration from an external image
// service and returns it inline as a base64 data URL, so browser clients never
// talk to the image host directly.
package imagerelay

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
)

const (
	DefaultWidth        = 720
	DefaultHeight       = 320
	MinDimension        = 1
	MaxDimension        = 4096
	DefaultTimeout      = 5 * time.Second
	DefaultMaxRedirects = 3
	DefaultMaxBytes     = 10 << 20
	DefaultMIME         = "image/jpeg"

	DefaultPicsumURL   = "https://picsum.photos"
	DefaultUnsplashURL = "https://source.unsplash.com"
)

// ErrUpstreamFetch covers network errors, non-200 responses and empty bodies.
var ErrUpstreamFetch = errors.New("imagerelay: upstream fetch failed")

// Request describes the wanted illustration. Zero Width/Height mean the
// defaults; an empty Seed means "now".
type Request struct {
	Theme  string
	Width  int
	Height int
	Seed   string
	Query  string
}

// Config configures a Relay.
type Config struct {
	PicsumURL    string
	UnsplashURL  string
	Timeout      time.Duration
	MaxRedirects int
	MaxBytes     int64
	Client       *http.Client
}

// Relay fetches images. Safe for concurrent use.
type Relay struct {
	client      *http.Client
	picsumURL   string
	unsplashURL string
	timeout     time.Duration
	maxBytes    int64
	now         func() time.Time
}

func New(cfg Config) *Relay {
	if cfg.PicsumURL == "" {
		cfg.PicsumURL = DefaultPicsumURL
	}
	if cfg.UnsplashURL == "" {
		cfg.UnsplashURL = DefaultUnsplashURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	client := &http.Client{}
	if cfg.Client != nil {
		c := *cfg.Client
		client = &c
	}
	maxRedirects := cfg.MaxRedirects
	client.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	return &Relay{
		client:      client,
		picsumURL:   strings.TrimRight(cfg.PicsumURL, "/"),
		unsplashURL: strings.TrimRight(cfg.UnsplashURL, "/"),
		timeout:     cfg.Timeout,
		maxBytes:    cfg.MaxBytes,
		now:         time.Now,
	}
}

// ClampDimension forces v into [MinDimension, MaxDimension]. Zero means def,
// the unset value of Request; callers parsing user input clamp 0 themselves.
func ClampDimension(v, def int) int {
	if v == 0 {
		v = def
	}
	if v < MinDimension {
		return MinDimension
	}
	if v > MaxDimension {
		return MaxDimension
	}
	return v
}

// SourceURL returns the upstream URL for req after defaults are applied: a
// query-matched stock photo when Query is set, else a seeded random image.
func (r *Relay) SourceURL(req Request) string {
	w := ClampDimension(req.Width, DefaultWidth)
	h := ClampDimension(req.Height, DefaultHeight)

	if q := strings.TrimSpace(req.Query); q != "" {
		return fmt.Sprintf("%s/%dx%d/?%s", r.unsplashURL, w, h, url.QueryEscape(q))
	}

	seed := req.Seed
	if seed == "" {
		seed = strconv.FormatInt(r.now().UnixMilli(), 10)
	}
	return fmt.Sprintf("%s/seed/%s/%d/%d", r.picsumURL, url.PathEscape(req.Theme+"-"+seed), w, h)
}

// Fetch downloads the image for req and returns it as a data URL.
func (r *Relay) Fetch(ctx context.Context, req Request) (string, error) {
	src := r.SourceURL(req)
	dataURL, size, err := r.fetch(ctx, src)
	metrics.RecordImageFetch(err, size)
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Str("url", src).Msg("Image relay fetch failed")
		return "", err
	}
	return dataURL, nil
}

func (r *Relay) fetch(ctx context.Context, src string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	httpReq.Header.Set("Accept", "image/*")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: status %d", ErrUpstreamFetch, resp.StatusCode)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return "", 0, fmt.Errorf("%w: read body: %v", ErrUpstreamFetch, err)
	}
	if n == 0 {
		return "", 0, fmt.Errorf("%w: empty body", ErrUpstreamFetch)
	}
	if n > r.maxBytes {
		return "", 0, fmt.Errorf("%w: body exceeds %d bytes", ErrUpstreamFetch, r.maxBytes)
	}

	mimeType := mediaType(resp.Header.Get("Content-Type"))
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), int(n), nil
}

// mediaType strips parameters from a Content-Type, defaulting to DefaultMIME.
func mediaType(contentType string) string {
	if contentType == "" {
		return DefaultMIME
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt == "" {
		return DefaultMIME
	}
	return mt
}
