package game

import (
	"slices"

	"scum/internal/pkg/errs"
)

// Join seats a new user. Users can only join while the table is waiting.
func (s *Session) Join(username string) error {
	if s.HasUser(username) {
		return errs.NewError(errs.ErrUsernameTaken)
	}

	if s.phase != PhaseWaiting {
		return errs.NewError(errs.ErrGameInProgress)
	}

	if len(s.users) >= MaxPlayers {
		return errs.NewError(errs.ErrTableFull)
	}

	s.users = append(s.users, &User{Name: username})
	s.logger.Info().Str("username", username).Int("users", len(s.users)).Msg("User joined table.")
	return nil
}

// Leave unseats a user while the table is waiting and reports whether it did.
// Once a game has started seats are permanent so the user can reconnect.
func (s *Session) Leave(username string) bool {
	if s.phase != PhaseWaiting {
		return false
	}

	idx := slices.IndexFunc(s.users, func(u *User) bool { return u.Name == username })
	if idx == -1 {
		return false
	}

	s.users = slices.Delete(s.users, idx, idx+1)
	s.logger.Info().Str("username", username).Int("users", len(s.users)).Msg("User left table.")
	s.BroadcastReadyStates()
	return true
}

// BroadcastReadyStates sends every user the ready flag of every seat.
func (s *Session) BroadcastReadyStates() {
	s.broadcast(ReadyStateChange{ReadyStates: s.readyStates()})
}

func (s *Session) readyStates() map[string]bool {
	states := make(map[string]bool, len(s.users))
	for _, u := range s.users {
		states[u.Name] = u.Ready
	}
	return states
}

func (s *Session) setReady(u *User, ready bool) {
	u.Ready = ready
	s.BroadcastReadyStates()
}

// requestStart starts the first hand once at least two users are seated and all are ready.
func (s *Session) requestStart() error {
	if len(s.users) < MinPlayers {
		return errs.NewError(errs.ErrNotEnoughPlayers)
	}

	for _, u := range s.users {
		if !u.Ready {
			return errs.NewError(errs.ErrPlayerNotReady, u.Name)
		}
	}

	s.startGame()
	return nil
}

// startGame freezes a shuffled player order, deals the first hand and opens play.
// The first hand has no trading.
func (s *Session) startGame() {
	order := make([]string, 0, len(s.users))
	for _, u := range s.users {
		order = append(order, u.Name)
	}
	s.cfg.Rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	s.seq.Freeze(order)

	s.handNumber = 1
	s.dealHands()
	s.phase = PhasePlaying

	s.logger.Info().
		Strs("player_order", order).
		Str("leader", s.seq.Current()).
		Msg("Game started.")

	s.broadcastState(EventGameStart)
}
