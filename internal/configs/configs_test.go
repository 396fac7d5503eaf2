package configs

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "JWT_SECRET", "RECONNECT_TOKEN_TTL",
		"ROUND_DELAY", "HAND_DELAY", "TRADE_DELAY", "DATABASE_URL",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.IsDevelopment() {
		t.Fatalf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Port != 8000 {
		t.Fatalf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.RoundDelay != 2*time.Second || cfg.HandDelay != 2*time.Second || cfg.TradeDelay != 2*time.Second {
		t.Fatalf("delays = %s/%s/%s, want 2s each", cfg.RoundDelay, cfg.HandDelay, cfg.TradeDelay)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("development should fall back to a default secret")
	}
	if cfg.DatabaseDSN != "" {
		t.Fatalf("DatabaseDSN = %q, want empty", cfg.DatabaseDSN)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9001")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ROUND_DELAY", "500ms")
	t.Setenv("DATABASE_URL", "postgres://localhost/scum")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != 9001 {
		t.Fatalf("Port = %d, want 9001", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.RoundDelay != 500*time.Millisecond {
		t.Fatalf("RoundDelay = %s, want 500ms", cfg.RoundDelay)
	}
	if cfg.DatabaseDSN == "" {
		t.Fatal("DatabaseDSN should be set")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non numeric port", env: map[string]string{"PORT": "abc"}},
		{name: "privileged port", env: map[string]string{"PORT": "80"}},
		{name: "production without secret", env: map[string]string{"ENVIRONMENT": "production"}},
		{name: "bad delay", env: map[string]string{"TRADE_DELAY": "soon"}},
		{name: "negative delay", env: map[string]string{"HAND_DELAY": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadConfig(); err == nil {
				t.Fatal("LoadConfig() expected an error")
			}
		})
	}
}
