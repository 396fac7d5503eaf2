/*
Package handler provides HTTP handler functions for the read-only table and history API.
*/
package handler

import (
	"net/http"
	"strconv"

	"scum/internal/app/db"
	"scum/internal/pkg/errs"
	"scum/internal/pkg/logx"
	"scum/internal/pkg/resp"
)

const (
	defaultHandsLimit = 20
	maxHandsLimit     = 100
)

// HandleTableStatus reports the phase and seats of the table. Hands are never included.
func HandleTableStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := deps.Table.Status(r.Context())
		if err != nil {
			logx.Error(err, "Failed to read table status")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, status)
	}
}

// HandleRecentHands lists recorded hand results, newest first.
func HandleRecentHands(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Ledger == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrLedgerDisabled))
			return
		}

		limit, ok := parseLimit(r.URL.Query().Get("limit"))
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		hands, err := deps.Ledger.RecentHands(r.Context(), limit)
		if err != nil {
			logx.Error(err, "Failed to list hand results", "limit", limit)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if hands == nil {
			hands = []db.HandRecord{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"hands": hands,
		})
	}
}

// parseLimit reads the limit query value, defaulting when empty and capping at maxHandsLimit.
func parseLimit(raw string) (int, bool) {
	if raw == "" {
		return defaultHandsLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, false
	}

	return min(limit, maxHandsLimit), true
}
