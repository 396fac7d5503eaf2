package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"scum/internal/game"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Fatalf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodePositions(t *testing.T) {
	raw, err := encodePositions(map[string]game.Position{"alice": game.King, "bob": game.ViceScum})
	if err != nil {
		t.Fatalf("encodePositions() error = %v", err)
	}
	if got, want := string(raw), `{"alice":"king","bob":"vice-scum"}`; got != want {
		t.Fatalf("encodePositions() = %s, want %s", got, want)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := embedMigrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}
}

// TestLedgerRoundTrip needs a Postgres reachable at TEST_DATABASE_URL.
func TestLedgerRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ledger, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer ledger.Close()

	sessionID := uuid.NewString()
	t.Cleanup(func() {
		if _, err := ledger.pool.Exec(context.Background(), `DELETE FROM hand_results WHERE session_id = $1`, sessionID); err != nil {
			t.Logf("cleanup: %v", err)
		}
	})

	result := game.HandResult{
		HandNumber:  3,
		FinishOrder: []string{"alice", "carol", "bob"},
		Positions:   map[string]game.Position{"alice": game.King, "carol": game.Neutral, "bob": game.Scum},
	}

	tests := []struct {
		name   string
		result game.HandResult
	}{
		{name: "first insert", result: result},
		{name: "duplicate ignored", result: result},
	}
	for _, tt := range tests {
		if err := ledger.RecordHand(ctx, sessionID, tt.result); err != nil {
			t.Fatalf("%s: RecordHand() error = %v", tt.name, err)
		}
	}

	var stored int
	if err := ledger.pool.QueryRow(ctx, `SELECT count(*) FROM hand_results WHERE session_id = $1`, sessionID).Scan(&stored); err != nil {
		t.Fatalf("count: %v", err)
	}
	if stored != 1 {
		t.Fatalf("stored rows = %d, want 1", stored)
	}

	hands, err := ledger.RecentHands(ctx, 100)
	if err != nil {
		t.Fatalf("RecentHands() error = %v", err)
	}
	idx := slices.IndexFunc(hands, func(h HandRecord) bool { return h.SessionID == sessionID })
	if idx < 0 {
		t.Fatalf("hand for session %s not among %d recent hands", sessionID, len(hands))
	}

	got := hands[idx]
	if got.HandNumber != 3 || !slices.Equal(got.FinishOrder, result.FinishOrder) {
		t.Fatalf("record = %+v", got)
	}
	wantPositions := map[string]string{"alice": "king", "carol": "neutral", "bob": "scum"}
	for name, want := range wantPositions {
		if got.Positions[name] != want {
			t.Fatalf("positions = %v, want %v", got.Positions, wantPositions)
		}
	}
	if got.RecordedAt.IsZero() {
		t.Fatal("recorded_at not set")
	}
}
