/*
Package main is the entry point for the Scum server.

It is responsible for loading configuration, initializing the global logging system,
opening the optional hand-results ledger, starting the table's event loop, serving HTTP
and WebSocket traffic, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scum/internal/app/db"
	"scum/internal/app/table"
	"scum/internal/configs"
	"scum/internal/game"
	"scum/internal/handler"
	"scum/internal/pkg/logx"
	"scum/internal/pkg/randx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("round_delay", cfg.RoundDelay).
		Dur("hand_delay", cfg.HandDelay).
		Dur("trade_delay", cfg.TradeDelay).
		Bool("ledger_enabled", cfg.DatabaseDSN != "").
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng, err := randx.NewRand()
	if err != nil {
		logx.Fatal(err, "Failed to seed the shuffler")
	}

	deps := &handler.AppDeps{Config: cfg}
	tableCfg := table.Config{
		JWTSecret:    cfg.JWTSecret,
		ReconnectTTL: cfg.ReconnectTTL,
		Game: game.Config{
			RoundDelay: cfg.RoundDelay,
			HandDelay:  cfg.HandDelay,
			TradeDelay: cfg.TradeDelay,
			Rand:       rng,
		},
	}

	// The ledger is optional; play never depends on it.
	if cfg.DatabaseDSN != "" {
		ledger, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			logx.Error(err, "Hand-results ledger unavailable; continuing without it")
		} else {
			defer ledger.Close()
			deps.Ledger = ledger
			tableCfg.Recorder = ledger
		}
	}

	// Start the table
	tb := table.New(randx.SessionID(), tableCfg)
	go tb.Run()
	deps.Table = tb

	logx.Info("Table started.", "session_id", tb.SessionID)

	// Setup HTTP server and routes
	router, closeRouter := handler.Router(deps)
	defer closeRouter()

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Scum Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	tb.Stop()

	select {
	case <-tb.Done():
	case <-shutdownCtx.Done():
		logx.Warn("Timed out waiting for hand results to be recorded.")
	}

	logx.Info("Server gracefully stopped.")
}
