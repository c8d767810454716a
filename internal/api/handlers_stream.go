// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/dailycard/internal/logging"
	ws "github.com/tomtom215/dailycard/internal/websocket"
)

// WithPickStream enables /api/picks/ws. origins restricts browser origins the
// same way CORS does.
func WithPickStream(hub *ws.Hub, origins []string) HandlerOption {
	return func(h *Handler) {
		h.stream = hub
		h.upgrader = ws.NewUpgrader(origins)
	}
}

// HasPickStream reports whether the stream route should be mounted.
func (h *Handler) HasPickStream() bool { return h.stream != nil }

// PickStream upgrades to a WebSocket that receives every content pick
//
// @Summary Live pick stream
// @Description WebSocket stream of {"type":"pick","data":{...}} messages, one per resolved content request
// @Tags Content
// @Success 101 "Switching protocols"
// @Failure 403 "Origin not allowed"
// @Failure 429 {object} Response "rate_limited"
// @Router /api/picks/ws [get]
func (h *Handler) PickStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.CtxDebug(r.Context()).Err(err).Msg("Pick stream upgrade failed")
		return
	}

	client := ws.NewClient(h.stream, conn)
	if !h.stream.Register(r.Context(), client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}
	client.Start()
}
