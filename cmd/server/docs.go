// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package main provides the dailycard content proxy
//
// @title Dailycard API
// @version 1.0
// @description Deterministic daily card content selection, external quote fallback and image relay.
// @description
// @description ## Determinism
// @description
// @description `/api/content` returns the same item for the same theme and day until `refresh=1` is passed.
// @description A refresh re-rolls with a different salt and never replaces the daily pick.
// @description
// @description ## Rate Limiting
// @description
// @description 100 requests per 60-second window per client address. Rejected requests get
// @description HTTP 429 with `message: "rate_limited"` and a `Retry-After` header.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {"status": "error", "message": "no_data"}
// @description ```
// @description Codes: `no_data`, `not_found`, `invalid_params`, `rate_limited`, `image_fetch_failed`,
// @description `method_not_allowed`, `internal_error`.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/dailycard/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8787
// @BasePath /
// @schemes http https
//
// @tag.name Content
// @tag.description Daily card text selection
//
// @tag.name Image
// @tag.description Illustration relay
//
// @tag.name Core
// @tag.description Health
package main
