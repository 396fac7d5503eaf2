/*
Package handler provides the HTTP handlers and routing setup for the Scum server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"scum/internal/pkg/limiter"
	"scum/internal/pkg/logx"
	"scum/internal/pkg/resp"
)

const (
	ConnectRate  = 0.5
	ConnectBurst = 10
	APIRate      = 5
	APIBurst     = 20
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes the per-IP limiters, configures CORS, and applies global and per-route middleware.
// The returned func stops the limiters' cleanup goroutines; call it after the server has shut down.
func Router(deps *AppDeps) (http.Handler, func()) {
	connectLimiter := limiter.NewKeyedRateLimiter(rate.Limit(ConnectRate), ConnectBurst)
	apiLimiter := limiter.NewKeyedRateLimiter(rate.Limit(APIRate), APIBurst)
	closeLimiters := func() {
		connectLimiter.Close()
		apiLimiter.Close()
	}

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Scum Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		api.Get("/table", HandleTableStatus(deps))
		api.Get("/hands", HandleRecentHands(deps))
	})

	r.Get("/ws", HandleWebSocket(deps.Table, wsUpgrader, connectLimiter))

	return r, closeLimiters
}
