// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package api

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Methods and headers advertised to browsers.
var (
	corsAllowedMethods = []string{http.MethodGet, http.MethodOptions}
	corsAllowedHeaders = []string{"Content-Type"}
)

const (
	headerAllowOrigin  = "Access-Control-Allow-Origin"
	headerAllowMethods = "Access-Control-Allow-Methods"
	headerAllowHeaders = "Access-Control-Allow-Headers"
)

// CORS echoes origins on the allow-list via go-chi/cors and answers every
// other origin with a wildcard. Preflight requests end here with 204.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	echo := cors.Handler(cors.Options{
		AllowedOrigins:     allowedOrigins,
		AllowedMethods:     corsAllowedMethods,
		AllowedHeaders:     corsAllowedHeaders,
		OptionsPassthrough: true,
	})
	return func(next http.Handler) http.Handler {
		return echo(corsFallback(next))
	}
}

// corsFallback fills in whatever the allow-list layer left unset.
func corsFallback(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if h.Get(headerAllowOrigin) == "" {
			h.Set(headerAllowOrigin, "*")
		}
		if h.Get(headerAllowMethods) == "" {
			h.Set(headerAllowMethods, "GET,OPTIONS")
		}
		if h.Get(headerAllowHeaders) == "" {
			h.Set(headerAllowHeaders, "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// APISecurityHeaders adds headers that are safe for every JSON response.
func APISecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
