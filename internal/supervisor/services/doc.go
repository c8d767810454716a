// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

/*
Package services adapts long-running dailycard components to suture v4.

Each wrapper implements suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Serve returns ctx.Err() on shutdown and a wrapped error when the component
fails, which tells the supervisor to restart it. Wrappers implement
fmt.Stringer so supervisor events name the service.

# Available Services

HTTPServerService:
  - Runs the content proxy http.Server
  - Drains connections on shutdown within a bounded timeout

JanitorService:
  - Sweeps expired rate limit windows and response cache entries
  - Runs each CleanupTask on a fixed interval

The pick event recorder (events.Recorder) already satisfies suture.Service
and is added to the tree directly.
*/
package services
