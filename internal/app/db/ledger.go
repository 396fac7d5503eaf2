package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"scum/internal/game"
	"scum/internal/pkg/logx"
)

// HandRecord is one stored hand result.
type HandRecord struct {
	SessionID   string            `json:"sessionId"`
	HandNumber  int               `json:"handNumber"`
	FinishOrder []string          `json:"finishOrder"`
	Positions   map[string]string `json:"positions"`
	RecordedAt  time.Time         `json:"recordedAt"`
}

// Ledger stores resolved hands in Postgres.
type Ledger struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLedger wraps a migrated pool.
func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool, logger: logx.Component("ledger")}
}

// Open connects to dsn, applies migrations and returns a ready Ledger.
func Open(ctx context.Context, dsn string) (*Ledger, error) {
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewLedger(pool), nil
}

// RecordHand inserts a hand result. A result already stored for the same
// session and hand number is logged and ignored.
func (l *Ledger) RecordHand(ctx context.Context, sessionID string, result game.HandResult) error {
	positions, err := encodePositions(result.Positions)
	if err != nil {
		return err
	}

	_, err = l.pool.Exec(ctx,
		`INSERT INTO hand_results (session_id, hand_number, finish_order, positions)
		 VALUES ($1, $2, $3, $4)`,
		sessionID, result.HandNumber, result.FinishOrder, positions,
	)
	if isUniqueViolation(err) {
		l.logger.Warn().
			Str("session_id", sessionID).
			Int("hand", result.HandNumber).
			Msg("Hand result already recorded.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert hand result: %w", err)
	}

	l.logger.Debug().Str("session_id", sessionID).Int("hand", result.HandNumber).Msg("Hand result recorded.")
	return nil
}

// RecentHands returns up to limit results, newest first.
func (l *Ledger) RecentHands(ctx context.Context, limit int) ([]HandRecord, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT session_id, hand_number, finish_order, positions, recorded_at
		 FROM hand_results
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query hand results: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (HandRecord, error) {
		var rec HandRecord
		err := row.Scan(&rec.SessionID, &rec.HandNumber, &rec.FinishOrder, &rec.Positions, &rec.RecordedAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read hand results: %w", err)
	}

	return records, nil
}

// Close releases the pool.
func (l *Ledger) Close() {
	l.pool.Close()
}

// encodePositions renders positions as a JSON object of position names.
func encodePositions(positions map[string]game.Position) ([]byte, error) {
	raw, err := json.Marshal(positions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode positions: %w", err)
	}
	return raw, nil
}

// uniqueViolation is the SQLSTATE Postgres reports for a duplicate key.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
