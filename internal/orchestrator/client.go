// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dailycard/internal/catalog"
)

// DefaultClientTimeout bounds one proxy round trip.
const DefaultClientTimeout = 10 * time.Second

// maxResponseBytes caps proxy responses; image data URLs are the largest.
const maxResponseBytes = 16 << 20

var (
	// ErrContentUnavailable means the proxy answered without usable content.
	ErrContentUnavailable = errors.New("content_unavailable")

	// ErrImageFetchFailed means the image request failed or returned non-200.
	ErrImageFetchFailed = errors.New("image_fetch_failed")

	// ErrImageInvalid means the image response had no data URL.
	ErrImageInvalid = errors.New("image_invalid")
)

// ImageRequest asks the proxy for an illustration. Query takes precedence
// over Theme.
type ImageRequest struct {
	Theme  string
	Query  string
	Width  int
	Height int
	Seed   string
}

// envelope is the proxy's JSON response shape.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	DataURL string          `json:"dataUrl,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client calls a content proxy over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient validates baseURL. A non-positive timeout uses
// DefaultClientTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy url %q: need http(s)://host", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

// Content fetches the pick for (theme, dateKey).
func (c *Client) Content(ctx context.Context, theme, dateKey string, external, refresh bool) (catalog.Item, error) {
	q := url.Values{}
	q.Set("theme", theme)
	q.Set("date", dateKey)
	if external {
		q.Set("ext", "1")
	}
	if refresh {
		q.Set("refresh", "1")
	}

	env, status, err := c.get(ctx, "/api/content", q)
	if err != nil {
		return catalog.Item{}, err
	}
	if status != http.StatusOK || env.Status != "success" || len(env.Data) == 0 {
		return catalog.Item{}, fmt.Errorf("%w: status %d %s", ErrContentUnavailable, status, env.Message)
	}

	var item catalog.Item
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return catalog.Item{}, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	if item.ID == "" {
		return catalog.Item{}, fmt.Errorf("%w: item without id", ErrContentUnavailable)
	}
	return item, nil
}

// Image fetches an illustration as a data URL.
func (c *Client) Image(ctx context.Context, req ImageRequest) (string, error) {
	q := url.Values{}
	if req.Width > 0 {
		q.Set("w", strconv.Itoa(req.Width))
	}
	if req.Height > 0 {
		q.Set("h", strconv.Itoa(req.Height))
	}
	if req.Seed != "" {
		q.Set("seed", req.Seed)
	}
	if req.Query != "" {
		q.Set("query", req.Query)
	} else {
		theme := req.Theme
		if theme == "" {
			theme = "random"
		}
		q.Set("theme", theme)
	}

	env, status, err := c.get(ctx, "/api/image", q)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageFetchFailed, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrImageFetchFailed, status)
	}
	if env.Status != "success" || !strings.HasPrefix(env.DataURL, "data:") {
		return "", ErrImageInvalid
	}
	return env.DataURL, nil
}

// get decodes the envelope of any response with a JSON body. Only transport
// and decoding failures are errors.
func (c *Client) get(ctx context.Context, path string, q url.Values) (envelope, int, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return envelope{}, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return envelope{}, resp.StatusCode, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return envelope{}, resp.StatusCode, nil
		}
		return envelope{}, resp.StatusCode, fmt.Errorf("decode %s response: %w", path, err)
	}
	return env, resp.StatusCode, nil
}
