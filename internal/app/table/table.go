/*
Package table hosts the one card table this server runs.

This file defines the Table struct, the single writer of all game state. Its Run loop
serializes client registration, inbound messages and timer expiries into the game
session, and it implements the session's Notifier and Scheduler on top of websocket
clients and runtime timers.
*/
package table

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"scum/internal/app/user"
	"scum/internal/game"
	"scum/internal/pkg/auth/jwt"
	"scum/internal/pkg/errs"
	"scum/internal/pkg/logx"
)

const (
	// inboundBuffer is how many decoded client messages may wait for the Run loop.
	inboundBuffer = 256

	// resultsBuffer is how many resolved hands may wait for the recorder.
	resultsBuffer = 32

	// recordTimeout bounds one ledger write.
	recordTimeout = 5 * time.Second

	// tokenRefreshInterval is how often connected users' reconnection tokens are checked.
	tokenRefreshInterval = 5 * time.Minute

	// TokenRefreshWindow defines how long before expiry a connected user gets a fresh token.
	TokenRefreshWindow = 30 * time.Minute
)

// ErrStopped is returned by calls made after the table has stopped.
var ErrStopped = errors.New("table stopped")

// Recorder persists resolved hands. It is called off the Run goroutine.
type Recorder interface {
	RecordHand(ctx context.Context, sessionID string, result game.HandResult) error
}

// Config carries everything a Table needs besides its session tunables.
type Config struct {
	// JWTSecret signs reconnection tokens.
	JWTSecret string

	// ReconnectTTL is the lifetime of a reconnection token.
	ReconnectTTL time.Duration

	// Game configures the session. OnHandEnd is overwritten by the table.
	Game game.Config

	// Recorder, if set, receives every resolved hand.
	Recorder Recorder
}

// inbound is one decoded client message, or the error decoding produced.
type inbound struct {
	client *Client
	login  *LoginRequest
	intent game.Intent
	err    error
}

// Status is a read-only summary of the table for the HTTP API.
type Status struct {
	SessionID   string             `json:"sessionId"`
	Phase       game.Phase         `json:"phase"`
	HandNumber  int                `json:"handNumber"`
	Users       []game.UserSummary `json:"users"`
	PlayerCount int                `json:"playerCount"`
	Connected   int                `json:"connected"`
}

// Table struct owns the game session and every connection to it.
type Table struct {
	// SessionID identifies this table instance; reconnection tokens are bound to it.
	SessionID string

	cfg     Config
	session *game.Session

	// every registered connection, logged in or not.
	clients map[*Client]struct{}

	// logged-in connections keyed by username.
	attached map[string]*Client

	// pending runtime timers keyed by their sequence number.
	timers map[uint64]*time.Timer

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	timerFired chan game.Timer
	inspect    chan func()
	results    chan game.HandResult

	// used to signal the Table to stop its Run loop immediately.
	stopChan chan struct{}

	// closed when Run has returned.
	done chan struct{}

	// closed when the recorder has drained every result.
	recorderDone chan struct{}

	logger zerolog.Logger
}

// New creates a Table. Call Run to start it.
func New(sessionID string, cfg Config) *Table {
	if cfg.ReconnectTTL <= 0 {
		cfg.ReconnectTTL = jwt.DefaultReconnectExpiration
	}

	t := &Table{
		SessionID:    sessionID,
		cfg:          cfg,
		clients:      make(map[*Client]struct{}),
		attached:     make(map[string]*Client),
		timers:       make(map[uint64]*time.Timer),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inbound, inboundBuffer),
		timerFired:   make(chan game.Timer),
		inspect:      make(chan func()),
		results:      make(chan game.HandResult, resultsBuffer),
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
		recorderDone: make(chan struct{}),
		logger:       logx.Component("table").With().Str("session_id", sessionID).Logger(),
	}

	gameCfg := cfg.Game
	gameCfg.OnHandEnd = t.queueResult
	t.session = game.NewSession(gameCfg, t, t)

	return t
}

// Stop sends a signal to terminate the Run loop.
func (t *Table) Stop() {
	select {
	case <-t.stopChan:
	default:
		t.logger.Info().Msg("Received stop signal. Stopping table.")
		close(t.stopChan)
	}
}

// Done is closed once Run has returned and every queued hand result has been recorded.
func (t *Table) Done() <-chan struct{} {
	return t.recorderDone
}

// Run starts the main event loop. It returns after Stop.
func (t *Table) Run() {
	go t.runRecorder()

	refresh := time.NewTicker(tokenRefreshInterval)

	defer func() {
		refresh.Stop()

		for seq, timer := range t.timers {
			timer.Stop()
			delete(t.timers, seq)
		}

		for c := range t.clients {
			c.closeSend()
		}

		close(t.results)
		close(t.done)

		t.logger.Info().Msg("Table Run loop finished.")
	}()

	t.logger.Info().Msg("Table Run loop started.")

	for {
		select {
		case c := <-t.register:
			t.clients[c] = struct{}{}
			c.logger.Debug().Int("connections", len(t.clients)).Msg("Client registered.")

		case c := <-t.unregister:
			t.dropClient(c)

		case msg := <-t.inbound:
			t.handleInbound(msg)

		case timer := <-t.timerFired:
			delete(t.timers, timer.Seq)
			t.session.Fire(timer)

		case fn := <-t.inspect:
			fn()

		case <-refresh.C:
			t.refreshTokens(time.Now())

		case <-t.stopChan:
			return
		}
	}
}

// RegisterClient hands a new connection to the Run loop. It reports false if the table has stopped.
func (t *Table) RegisterClient(c *Client) bool {
	select {
	case t.register <- c:
		return true
	case <-t.done:
		return false
	}
}

func (t *Table) unregisterClient(c *Client) {
	select {
	case t.unregister <- c:
	case <-t.done:
	}
}

// post queues a decoded message. It reports false if the table has stopped.
func (t *Table) post(msg inbound) bool {
	select {
	case t.inbound <- msg:
		return true
	case <-t.done:
		return false
	}
}

// Status returns a snapshot of the table taken on the Run goroutine.
func (t *Table) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	fn := func() {
		reply <- Status{
			SessionID:   t.SessionID,
			Phase:       t.session.Phase(),
			HandNumber:  t.session.HandNumber(),
			Users:       t.session.Summary(),
			PlayerCount: len(t.session.PlayerOrder()),
			Connected:   len(t.attached),
		}
	}

	select {
	case t.inspect <- fn:
	case <-t.done:
		return Status{}, ErrStopped
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}

	return <-reply, nil
}

func (t *Table) handleInbound(msg inbound) {
	c := msg.client
	if _, ok := t.clients[c]; !ok {
		return
	}

	err := msg.err
	switch {
	case err != nil:
	case msg.login != nil:
		err = t.login(c, *msg.login)
	case !c.user.LoggedIn():
		err = errs.NewError(errs.ErrNotLoggedIn)
	case t.attached[c.user.Username] != c:
		// Replaced by a newer connection; its messages no longer count.
		return
	default:
		err = t.session.Handle(c.user.Username, msg.intent)
	}

	if err != nil {
		t.sendTo(c, game.BadRequest{Error: errs.Message(err)})
	}
}

// login seats a new user, or reattaches an existing one that presents a valid token.
func (t *Table) login(c *Client, req LoginRequest) error {
	if c.user.LoggedIn() {
		return errs.NewError(errs.ErrAlreadyLoggedIn)
	}

	if err := user.ValidateUsername(req.Username); err != nil {
		return err
	}

	if req.ReconnectionToken == "" {
		if err := t.session.Join(req.Username); err != nil {
			return err
		}

		t.attach(c, req.Username)
		t.session.BroadcastReadyStates()
		return nil
	}

	if _, err := jwt.VerifyReconnect(req.ReconnectionToken, t.cfg.JWTSecret, req.Username, t.SessionID); err != nil {
		t.logger.Info().Err(err).Str("username", req.Username).Msg("Reconnection token rejected.")
		return errs.NewError(errs.ErrBadReconnectionToken)
	}

	if !t.session.HasUser(req.Username) {
		return errs.NewError(errs.ErrBadReconnectionToken)
	}

	if old, ok := t.attached[req.Username]; ok && old != c {
		old.Kick(errs.NewError(errs.ErrSessionKicked).Message)
	}

	t.attach(c, req.Username)
	t.session.SendSnapshot(req.Username)
	return nil
}

// attach binds c to username and sends it a fresh reconnection token.
func (t *Table) attach(c *Client, username string) {
	c.user = user.User{Username: username}
	t.attached[username] = c

	t.logger.Info().Str("username", username).Int("connected", len(t.attached)).Msg("User logged in.")
	t.issueToken(c)
}

// issueToken sends c a loginAccepted carrying a new reconnection token.
func (t *Table) issueToken(c *Client) {
	payload := &jwt.Payload{Username: c.user.Username, SessionID: t.SessionID}

	token, err := jwt.GenerateToken(payload, t.cfg.JWTSecret, t.cfg.ReconnectTTL)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to generate reconnection token.")
	} else {
		c.user.TokenExpiry = time.Now().Add(t.cfg.ReconnectTTL)
	}

	t.sendTo(c, game.LoginAccepted{Username: c.user.Username, ReconnectionToken: token})
}

// refreshTokens reissues tokens that expire within TokenRefreshWindow of now.
func (t *Table) refreshTokens(now time.Time) {
	for _, c := range t.attached {
		if now.After(c.user.TokenExpiry.Add(-TokenRefreshWindow)) {
			t.logger.Info().
				Str("username", c.user.Username).
				Time("current_expiry", c.user.TokenExpiry).
				Msg("Reconnection token nearing expiry, refreshing.")
			t.issueToken(c)
		}
	}
}

// dropClient forgets c. A user whose last connection goes away while the table
// is waiting loses their seat; once a game runs the seat is kept for reconnection.
func (t *Table) dropClient(c *Client) {
	if _, ok := t.clients[c]; !ok {
		return
	}
	delete(t.clients, c)
	c.closeSend()

	name := c.user.Username
	if name == "" || t.attached[name] != c {
		c.logger.Debug().Msg("Anonymous or replaced connection closed.")
		return
	}
	delete(t.attached, name)

	if t.session.Leave(name) {
		t.logger.Info().Str("username", name).Msg("User left before the game started.")
	} else {
		t.logger.Info().Str("username", name).Msg("User disconnected; seat kept for reconnection.")
	}
}

// Send implements game.Notifier. Events for users without a live connection are dropped.
func (t *Table) Send(username string, ev game.Event) {
	c, ok := t.attached[username]
	if !ok {
		return
	}
	t.sendTo(c, ev)
}

func (t *Table) sendTo(c *Client, ev game.Event) {
	messageBytes, err := json.Marshal(NewMessage(ev))
	if err != nil {
		t.logger.Error().Err(err).Str("event", string(ev.Type())).Msg("Error marshaling event.")
		return
	}

	// A failed enqueue closes the connection; ReadPump then unregisters it.
	c.enqueue(messageBytes)
}

// Schedule implements game.Scheduler with a runtime timer that posts back into the Run loop.
func (t *Table) Schedule(delay time.Duration, timer game.Timer) {
	t.timers[timer.Seq] = time.AfterFunc(delay, func() {
		select {
		case t.timerFired <- timer:
		case <-t.done:
		}
	})
}

// queueResult hands a resolved hand to the recorder without blocking the Run loop.
func (t *Table) queueResult(result game.HandResult) {
	if t.cfg.Recorder == nil {
		return
	}

	select {
	case t.results <- result:
	default:
		t.logger.Warn().Int("hand", result.HandNumber).Msg("Results queue full, dropping hand result.")
	}
}

func (t *Table) runRecorder() {
	defer close(t.recorderDone)

	for result := range t.results {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := t.cfg.Recorder.RecordHand(ctx, t.SessionID, result)
		cancel()

		if err != nil {
			t.logger.Error().Err(err).Int("hand", result.HandNumber).Msg("Failed to record hand result.")
		}
	}
}
