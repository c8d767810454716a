// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

/*
Package main is the dailycard content proxy server.

It is the "serve" command of the dailycard CLI without the other
subcommands, for container images that only run the proxy.

Component initialization order:

 1. Configuration: koanf v2 defaults, YAML file, environment
 2. Logging: zerolog, JSON or console
 3. Catalog and history store (badger, sqlite or memory)
 4. Selection engine, quote provider chain, image relay
 5. Pick event bus and recorder (EVENTS_ENABLED)
 6. Chi router with CORS, metrics and rate limiting
 7. Supervisor tree: janitor, event recorder, HTTP server

SIGINT or SIGTERM cancels the tree; the HTTP server drains connections for
up to 10 seconds and the history store is closed last.
*/
package main
