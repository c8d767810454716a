// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

/*
Package api exposes the content proxy over HTTP using the chi router.

Endpoints:

  - GET /api/content?theme=&date=&ext=&refresh= returns the day's card item
  - GET /api/image?theme=&w=&h=&seed=&query= relays an illustration as a data URL
  - GET /api/health reports liveness, catalog sizes and cache statistics
  - GET /api/picks/ws streams picks over a WebSocket (events enabled only)
  - GET /metrics serves Prometheus metrics
  - GET /swagger/* serves the OpenAPI UI

Every JSON body carries "status" ("success" or "error"); errors carry a
stable machine code in "message" (no_data, not_found, rate_limited,
image_fetch_failed, invalid_params, method_not_allowed, internal_error).

Middleware order, outermost first: request id, real ip (when trusted),
panic recovery, CORS, metrics, rate limiting. CORS runs before the limiter
so rejected responses still carry CORS headers and preflights are never
counted against a client.
*/
package api
