// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dailycard/internal/logging"
)

// Error codes written to the "message" field.
const (
	CodeNoData           = "no_data"
	CodeNotFound         = "not_found"
	CodeRateLimited      = "rate_limited"
	CodeImageFetchFailed = "image_fetch_failed"
	CodeInvalidParams    = "invalid_params"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal_error"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope for every JSON body.
type Response struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data is the payload of /api/content and /api/health.
	Data interface{} `json:"data,omitempty"`

	// DataURL is the payload of /api/image.
	DataURL string `json:"dataUrl,omitempty"`

	// Message is the machine readable error code.
	Message string `json:"message,omitempty"`

	// Details explains invalid_params failures.
	Details interface{} `json:"details,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func respondJSON(w http.ResponseWriter, status int, response *Response) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag is FNV-1a over the body.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	respondJSON(w, http.StatusOK, &Response{
		Status:    StatusSuccess,
		Data:      data,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// respondError writes the error envelope. err, when non-nil, is logged at a
// level matching the status class.
func respondError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	respondErrorDetails(w, r, status, code, nil, err)
}

func respondErrorDetails(w http.ResponseWriter, r *http.Request, status int, code string, details interface{}, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		event := logger.Warn()
		if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
			event = logger.Error()
		}
		event.Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &Response{
		Status:    StatusError,
		Message:   code,
		Details:   details,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}
