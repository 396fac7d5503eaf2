/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting, upgrading the
HTTP connection to WebSocket, and handing the new client to the table. Login happens over the socket.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"scum/internal/app/table"
	"scum/internal/pkg/errs"
	"scum/internal/pkg/limiter"
	"scum/internal/pkg/logx"
	"scum/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(tb *table.Table, upgrader websocket.Upgrader, rateLimiter *limiter.KeyedRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.Allow(ip) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", logx.AnonymizeIP(ip))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := table.NewClient(tb, conn)

		if !tb.RegisterClient(client) {
			logx.Warn("WebSocket connection dropped: table is shutting down.")
			conn.Close()
			return
		}

		go client.WritePump()

		client.ReadPump()
	}
}
