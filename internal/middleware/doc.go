// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

/*
Package middleware provides HTTP middleware for the proxy router.

Key Components:

  - RequestID: X-Request-ID propagation plus request/correlation ids on the
    logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    the matched chi route pattern so label cardinality stays bounded
  - Compression: gzip for large bodies such as relayed image data URLs

All middleware uses the chi signature func(http.Handler) http.Handler.
*/
package middleware
