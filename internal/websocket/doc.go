// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

/*
Package websocket streams content picks to connected browsers.

A Hub owns the set of connected clients and fans broadcast messages out to
them. A Forwarder subscribes to the pick event bus and hands every decoded
pick to the hub. Both run as supervised services in the events layer:

	bus --(dailycard.content.picked)--> Forwarder --> Hub --> Client...

Each Client runs a read pump (pong handling, ping replies) and a write pump
(JSON messages, keepalive pings). A client whose send buffer is full is
dropped rather than slowing the broadcast.

Message format:

	{"type": "pick", "data": {"theme": "movies", "date_key": "2026-10-19", ...}}
	{"type": "pong", "data": null}
*/
package websocket
