package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"scum/internal/app/db"
	"scum/internal/app/table"
	"scum/internal/configs"
	"scum/internal/game"
	"scum/internal/pkg/errs"
)

type fakeLedger struct {
	hands     []db.HandRecord
	err       error
	lastLimit int
}

func (f *fakeLedger) RecentHands(_ context.Context, limit int) ([]db.HandRecord, error) {
	f.lastLimit = limit
	return f.hands, f.err
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T, ledger HandLedger) *httptest.Server {
	t.Helper()

	tb := table.New("session-http", table.Config{
		JWTSecret:    "secret",
		ReconnectTTL: time.Hour,
		Game: game.Config{
			RoundDelay: time.Millisecond,
			HandDelay:  time.Millisecond,
			TradeDelay: time.Millisecond,
			Rand:       rand.New(rand.NewPCG(3, 4)),
		},
	})
	go tb.Run()

	deps := &AppDeps{
		Table:  tb,
		Config: &configs.AppConfig{Environment: "development"},
		Ledger: ledger,
	}

	router, closeRouter := Router(deps)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		closeRouter()
		tb.Stop()
		<-tb.Done()
	})
	return srv
}

func get(t *testing.T, url string) (int, apiResponse) {
	t.Helper()

	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return res.StatusCode, body
}

func TestHealth(t *testing.T) {
	srv := newServer(t, nil)

	status, body := get(t, srv.URL+"/health")
	if status != http.StatusOK || body.Code != 0 {
		t.Fatalf("GET /health = %d %+v", status, body)
	}
}

func TestRecentHands(t *testing.T) {
	hands := []db.HandRecord{{SessionID: "s", HandNumber: 1, FinishOrder: []string{"a", "b"}}}

	tests := []struct {
		name       string
		ledger     HandLedger
		query      string
		wantStatus int
		wantCode   int
		wantLimit  int
	}{
		{name: "disabled", ledger: nil, wantStatus: http.StatusServiceUnavailable, wantCode: errs.ErrLedgerDisabled},
		{name: "default limit", ledger: &fakeLedger{hands: hands}, wantStatus: http.StatusOK, wantLimit: defaultHandsLimit},
		{name: "capped limit", ledger: &fakeLedger{hands: hands}, query: "?limit=1000", wantStatus: http.StatusOK, wantLimit: maxHandsLimit},
		{name: "explicit limit", ledger: &fakeLedger{hands: hands}, query: "?limit=5", wantStatus: http.StatusOK, wantLimit: 5},
		{name: "bad limit", ledger: &fakeLedger{}, query: "?limit=zero", wantStatus: http.StatusBadRequest, wantCode: errs.ErrInvalidParams},
		{name: "negative limit", ledger: &fakeLedger{}, query: "?limit=-3", wantStatus: http.StatusBadRequest, wantCode: errs.ErrInvalidParams},
		{name: "ledger failure", ledger: &fakeLedger{err: errors.New("db down")}, wantStatus: http.StatusInternalServerError, wantCode: errs.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.ledger)

			status, body := get(t, srv.URL+"/api/hands"+tt.query)
			if status != tt.wantStatus || body.Code != tt.wantCode {
				t.Fatalf("GET /api/hands%s = %d code %d, want %d code %d", tt.query, status, body.Code, tt.wantStatus, tt.wantCode)
			}

			if f, ok := tt.ledger.(*fakeLedger); ok && tt.wantLimit != 0 && f.lastLimit != tt.wantLimit {
				t.Fatalf("ledger queried with limit %d, want %d", f.lastLimit, tt.wantLimit)
			}
		})
	}
}

func TestTableOverHTTPAndWebsocket(t *testing.T) {
	srv := newServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":    "loginRequest",
		"payload": map[string]string{"username": "carol"},
	}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	var accepted struct {
		Type    string `json:"type"`
		Payload struct {
			Username string `json:"username"`
		} `json:"payload"`
	}
	if err := conn.ReadJSON(&accepted); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if accepted.Type != "loginAccepted" || accepted.Payload.Username != "carol" {
		t.Fatalf("first message = %+v, want loginAccepted for carol", accepted)
	}

	status, body := get(t, srv.URL+"/api/table")
	if status != http.StatusOK {
		t.Fatalf("GET /api/table = %d", status)
	}

	var tableStatus table.Status
	if err := json.Unmarshal(body.Data, &tableStatus); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if tableStatus.SessionID != "session-http" || len(tableStatus.Users) != 1 || tableStatus.Users[0].Username != "carol" {
		t.Fatalf("status = %+v", tableStatus)
	}
	if strings.Contains(string(body.Data), "hand\"") {
		t.Fatalf("table status leaks hands: %s", body.Data)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: "", want: defaultHandsLimit, wantOK: true},
		{raw: "1", want: 1, wantOK: true},
		{raw: "100", want: 100, wantOK: true},
		{raw: "101", want: maxHandsLimit, wantOK: true},
		{raw: "0", wantOK: false},
		{raw: "abc", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseLimit(tt.raw)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Fatalf("parseLimit(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRouterCloseStopsLimiters(t *testing.T) {
	deps := &AppDeps{Config: &configs.AppConfig{Environment: "development"}}
	before := runtime.NumGoroutine()

	const routers = 10
	closers := make([]func(), 0, routers)
	for range routers {
		_, closeRouter := Router(deps)
		closers = append(closers, closeRouter)
	}
	if got := runtime.NumGoroutine(); got < before+routers {
		t.Fatalf("goroutines = %d after %d routers, want at least %d", got, routers, before+routers)
	}

	for _, closeRouter := range closers {
		closeRouter()
		closeRouter()
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines = %d after close, want at most %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
