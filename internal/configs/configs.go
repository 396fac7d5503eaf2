/*
Package configs loads the server's settings from environment variables.

It covers the running environment and port, CORS/websocket origins, the reconnection
token secret, the fixed delays of the game's timed transitions, and the optional
Postgres DSN for the hand-results ledger.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = 8000
	defaultPhaseDelay   = 2 * time.Second
	defaultReconnectTTL = 12 * time.Hour
	developmentSecret   = "insecure_development_secret_change_me"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string
	ReconnectTTL   time.Duration

	// Game Timing
	RoundDelay time.Duration
	HandDelay  time.Duration
	TradeDelay time.Duration

	// Database Settings; empty disables the hand-results ledger.
	DatabaseDSN string
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads and validates the configuration from environment variables,
// applying defaults where a variable is unset.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.Port = defaultPort
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
		}
		cfg.Port = port
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	cfg.AllowedOrigins = []string{}
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
		cfg.JWTSecret = developmentSecret
	}

	var err error
	if cfg.ReconnectTTL, err = durationEnv("RECONNECT_TOKEN_TTL", defaultReconnectTTL); err != nil {
		return nil, err
	}

	// --- Game Timing ---
	if cfg.RoundDelay, err = durationEnv("ROUND_DELAY", defaultPhaseDelay); err != nil {
		return nil, err
	}
	if cfg.HandDelay, err = durationEnv("HAND_DELAY", defaultPhaseDelay); err != nil {
		return nil, err
	}
	if cfg.TradeDelay, err = durationEnv("TRADE_DELAY", defaultPhaseDelay); err != nil {
		return nil, err
	}

	// --- Database Settings ---
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")

	return cfg, nil
}

// durationEnv parses a Go duration from the named variable, returning def when it is unset.
func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, d)
	}

	return d, nil
}
