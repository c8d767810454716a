// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/dailycard/internal/imagerelay"
	"github.com/tomtom215/dailycard/internal/validation"
)

// ContentQuery holds the /api/content query parameters.
type ContentQuery struct {
	Theme   string `query:"theme" validate:"omitempty,max=64,nocontrol"`
	Date    string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Ext     string `query:"ext" validate:"omitempty,oneof=0 1"`
	Refresh string `query:"refresh" validate:"omitempty,oneof=0 1"`
}

// ImageQuery holds the /api/image query parameters. Width and Height are
// lenient: a missing or non-integer value falls back to the default size,
// and out of range values, zero included, are clamped into [1,4096].
type ImageQuery struct {
	Theme  string `query:"theme" validate:"omitempty,max=64,nocontrol"`
	Width  int    `query:"w"`
	Height int    `query:"h"`
	Seed   string `query:"seed" validate:"omitempty,max=128,nocontrol"`
	Query  string `query:"query" validate:"omitempty,max=256,nocontrol"`
}

func parseContentQuery(r *http.Request) ContentQuery {
	q := r.URL.Query()
	return ContentQuery{
		Theme:   strings.TrimSpace(q.Get("theme")),
		Date:    strings.TrimSpace(q.Get("date")),
		Ext:     q.Get("ext"),
		Refresh: q.Get("refresh"),
	}
}

func parseImageQuery(r *http.Request) ImageQuery {
	q := r.URL.Query()
	return ImageQuery{
		Theme:  strings.TrimSpace(q.Get("theme")),
		Width:  getDimensionParam(r, "w", imagerelay.DefaultWidth),
		Height: getDimensionParam(r, "h", imagerelay.DefaultHeight),
		Seed:   strings.TrimSpace(q.Get("seed")),
		Query:  strings.TrimSpace(q.Get("query")),
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getDimensionParam reads an image dimension. An explicit value is clamped
// here so that w=0 means one pixel rather than the relay default.
func getDimensionParam(r *http.Request, key string, defaultValue int) int {
	n := getIntParam(r, key, defaultValue)
	if n < imagerelay.MinDimension {
		return imagerelay.MinDimension
	}
	return imagerelay.ClampDimension(n, defaultValue)
}

// validateRequest returns nil when v passes, else the invalid_params error.
func validateRequest(v interface{}) *validation.APIError {
	if err := validation.ValidateStruct(v); err != nil {
		return err.ToAPIError()
	}
	return nil
}
