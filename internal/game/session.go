/*
Package game is the authoritative engine for a Scum/President card table.

A Session owns every piece of game truth: seats and hands, the fixed turn order,
the board, round and hand lifecycle, social positions and forced trades. It does
no I/O. Outbound events go through a Notifier, deferred transitions through a
Scheduler, and the caller must serialize every call into a Session, including
Fire for timers.
*/
package game

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"scum/internal/pkg/errs"
	"scum/internal/pkg/logx"
)

const (
	// MinPlayers is the smallest table that can start.
	MinPlayers = 2

	// MaxPlayers is the largest table; two decks serve up to ten but the lobby stops at eight.
	MaxPlayers = 8

	// fullHierarchyPlayers is the table size from which queen and vice-scum exist.
	fullHierarchyPlayers = 4
)

// Config carries the session's tunables and hooks.
type Config struct {
	RoundDelay time.Duration
	HandDelay  time.Duration
	TradeDelay time.Duration

	// Rand drives the player-order and deck shuffles. Required.
	Rand *rand.Rand

	// OnHandEnd, if set, is called synchronously when a hand resolves.
	// It must not block.
	OnHandEnd func(HandResult)
}

// HandResult summarizes a resolved hand.
type HandResult struct {
	HandNumber  int
	FinishOrder []string
	Positions   map[string]Position
}

// Session is the single mutable table aggregate.
type Session struct {
	cfg       Config
	notifier  Notifier
	scheduler Scheduler
	logger    zerolog.Logger

	users       []*User
	phase       Phase
	seq         Sequencer
	board       []Card
	discard     []Card
	lastPlayer  string
	owedTrades  map[string]struct{}
	finishOrder []string
	handNumber  int

	// deck is the unshuffled deck of the current hand, kept for conservation checks.
	deck []Card

	timerSeq uint64
	pending  Timer
}

// NewSession creates an empty session in the waiting phase.
func NewSession(cfg Config, notifier Notifier, scheduler Scheduler) *Session {
	if cfg.Rand == nil {
		panic("game: Config.Rand is required")
	}

	return &Session{
		cfg:        cfg,
		notifier:   notifier,
		scheduler:  scheduler,
		logger:     logx.Component("session"),
		phase:      PhaseWaiting,
		owedTrades: make(map[string]struct{}),
	}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// HandNumber returns the number of hands dealt so far.
func (s *Session) HandNumber() int { return s.handNumber }

// CurrentPlayer returns the username whose turn it is, or "" before the first deal.
func (s *Session) CurrentPlayer() string { return s.seq.Current() }

// LastPlayer returns the username who made the play now on the board.
func (s *Session) LastPlayer() string { return s.lastPlayer }

// Board returns a copy of the cards on the board.
func (s *Session) Board() []Card { return slices.Clone(s.board) }

// PlayerOrder returns the fixed turn order.
func (s *Session) PlayerOrder() []string { return s.seq.Order() }

// FinishOrder returns the users who have finished the current hand, in order.
func (s *Session) FinishOrder() []string { return slices.Clone(s.finishOrder) }

// OwedTrades returns the usernames the table is waiting on for a return trade, sorted.
func (s *Session) OwedTrades() []string {
	return slices.Sorted(maps.Keys(s.owedTrades))
}

// HasUser reports whether username is seated.
func (s *Session) HasUser(username string) bool {
	return s.user(username) != nil
}

// User returns a copy of the named seat.
func (s *Session) User(username string) (User, bool) {
	u := s.user(username)
	if u == nil {
		return User{}, false
	}
	cp := *u
	cp.Hand = slices.Clone(u.Hand)
	return cp, true
}

// UserSummary is the lobby-level view of a seat.
type UserSummary struct {
	Username string   `json:"username"`
	Ready    bool     `json:"ready"`
	Position Position `json:"position"`
	Finished bool     `json:"finished"`
}

// Summary returns every seat in join order, without hands.
func (s *Session) Summary() []UserSummary {
	out := make([]UserSummary, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, UserSummary{
			Username: u.Name,
			Ready:    u.Ready,
			Position: u.Position,
			Finished: u.Finished,
		})
	}
	return out
}

// Handle applies one intent from username. A non-nil error means the intent was
// rejected and nothing changed; the caller reports it back as a bad request.
func (s *Session) Handle(username string, in Intent) error {
	u := s.user(username)
	if u == nil {
		return errs.NewError(errs.ErrNotLoggedIn)
	}

	var err error
	switch in := in.(type) {
	case SetReadyState:
		if err = s.requirePhase(in, PhaseWaiting); err == nil {
			s.setReady(u, in.Ready)
		}
	case RequestGameStart:
		if err = s.requirePhase(in, PhaseWaiting); err == nil {
			err = s.requestStart()
		}
	case PlayCards:
		if err = s.requirePhase(in, PhasePlaying); err == nil {
			err = s.play(u, in.Cards)
		}
	case Pass:
		if err = s.requirePhase(in, PhasePlaying); err == nil {
			err = s.pass(u)
		}
	case SendCards:
		if err = s.requirePhase(in, PhaseTrading); err == nil {
			err = s.sendCards(u, in.Cards)
		}
	default:
		err = errs.NewError(errs.ErrUnsupportedIntent, intentName(in))
	}

	if err != nil {
		s.logger.Debug().
			Str("username", username).
			Str("intent", intentName(in)).
			Str("phase", s.phase.String()).
			Err(err).
			Msg("Intent rejected.")
		return err
	}

	s.checkConservation()
	return nil
}

// Fire runs a scheduled transition. Timers that are not the most recently
// scheduled one, or whose phase has passed, are ignored.
func (s *Session) Fire(t Timer) {
	if t != s.pending {
		s.logger.Debug().Str("timer", t.Kind.String()).Uint64("seq", t.Seq).Msg("Ignoring stale timer.")
		return
	}
	s.pending = Timer{}

	switch t.Kind {
	case TimerRoundRestart:
		if s.phase == PhaseResolvingRound {
			s.newRound()
		}
	case TimerHandStart:
		if s.phase == PhaseTrading && len(s.owedTrades) == 0 && len(s.finishOrder) > 0 {
			s.beginHand()
		}
	case TimerTradesDone:
		if s.phase == PhaseTrading && len(s.owedTrades) == 0 && len(s.finishOrder) == 0 {
			s.resumePlay()
		}
	}

	s.checkConservation()
}

// SendSnapshot sends username the state it needs after (re)connecting.
func (s *Session) SendSnapshot(username string) {
	u := s.user(username)
	if u == nil {
		return
	}

	if s.phase == PhaseWaiting {
		s.notifier.Send(u.Name, ReadyStateChange{ReadyStates: s.readyStates()})
		return
	}

	kind := EventGameStateChange
	if s.phase == PhaseResolvingRound {
		kind = EventRoundEnd
	}
	s.notifier.Send(u.Name, s.snapshotFor(u, kind))
}

func (s *Session) requirePhase(in Intent, want Phase) error {
	if s.phase != want {
		return errs.NewError(errs.ErrIntentOutOfPhase, in.Type())
	}
	return nil
}

func intentName(in Intent) string {
	if in == nil {
		return "<nil>"
	}
	return string(in.Type())
}

func (s *Session) user(name string) *User {
	for _, u := range s.users {
		if u.Name == name {
			return u
		}
	}
	return nil
}

// holder returns the user currently holding pos, or nil.
func (s *Session) holder(pos Position) *User {
	for _, u := range s.users {
		if u.Position == pos {
			return u
		}
	}
	return nil
}

func (s *Session) playerCount() int {
	return len(s.users)
}

func (s *Session) schedule(kind TimerKind, delay time.Duration) {
	s.timerSeq++
	s.pending = Timer{Kind: kind, Seq: s.timerSeq}
	s.scheduler.Schedule(delay, s.pending)
}

func (s *Session) broadcast(ev Event) {
	for _, u := range s.users {
		s.notifier.Send(u.Name, ev)
	}
}

// broadcastState sends every user a snapshot carrying only their own hand.
func (s *Session) broadcastState(kind EventType) {
	for _, u := range s.users {
		s.notifier.Send(u.Name, s.snapshotFor(u, kind))
	}
}

func (s *Session) snapshotFor(recipient *User, kind EventType) GameState {
	players := make([]PlayerView, 0, len(s.users))
	for _, name := range s.seq.order {
		u := s.user(name)
		if u == nil {
			continue
		}
		players = append(players, PlayerView{
			Username: u.Name,
			Position: u.Position,
			Passed:   u.Passed,
			Finished: u.Finished,
			HandSize: len(u.Hand),
		})
	}

	board := slices.Clone(s.board)
	if board == nil {
		board = []Card{}
	}

	return GameState{
		Kind:          kind,
		Phase:         s.phase,
		Players:       players,
		CurrentPlayer: s.seq.Current(),
		LastPlayer:    s.lastPlayer,
		Board:         board,
		Hand:          sortedCopy(recipient.Hand),
	}
}

// checkConservation panics if hands, board and discards no longer hold exactly the dealt deck.
// A mismatch is a programming error, never a user error.
func (s *Session) checkConservation() {
	if s.deck == nil {
		return
	}

	counts := make(map[Card]int, len(s.deck))
	for _, c := range s.deck {
		counts[c]++
	}
	for _, c := range s.board {
		counts[c]--
	}
	for _, c := range s.discard {
		counts[c]--
	}
	for _, u := range s.users {
		for _, c := range u.Hand {
			counts[c]--
		}
	}

	for c, n := range counts {
		if n != 0 {
			panic(fmt.Sprintf("game: card conservation violated for %s (off by %d)", c, n))
		}
	}
}
