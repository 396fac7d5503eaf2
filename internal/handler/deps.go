package handler

import (
	"context"

	"scum/internal/app/db"
	"scum/internal/app/table"
	"scum/internal/configs"
)

// HandLedger lists recorded hands. *db.Ledger satisfies it.
type HandLedger interface {
	RecentHands(ctx context.Context, limit int) ([]db.HandRecord, error)
}

type AppDeps struct {
	Table  *table.Table
	Config *configs.AppConfig

	// Ledger is nil when no database is configured.
	Ledger HandLedger
}
