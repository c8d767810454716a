// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/metrics"
)

// KeyFunc derives the client key for a request.
type KeyFunc = httprate.KeyFunc

// ClientKey picks the key function: the forwarding headers are only trusted
// behind a reverse proxy.
func ClientKey(trustProxy bool) KeyFunc {
	if trustProxy {
		return httprate.KeyByRealIP
	}
	return httprate.KeyByIP
}

// Middleware rejects requests over the limit by calling onLimit after setting
// Retry-After. A key function error lets the request through.
func Middleware(l *Limiter, key KeyFunc, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = httprate.KeyByIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k, err := key(r)
			if err != nil {
				logging.CtxWarn(r.Context()).Err(err).Msg("Rate limit key unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			allowed, retryAfter := l.Allow(k)
			if !allowed {
				metrics.RateLimitRejections.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(retryAfter)))
				onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retrySeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
