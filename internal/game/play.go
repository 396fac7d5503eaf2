package game

import (
	"scum/internal/pkg/errs"
)

// validatePlay checks a play against the turn, the board and the actor's hand,
// in that order. On success it returns the hand without the played cards.
func validatePlay(current string, actor *User, board, cards []Card) ([]Card, error) {
	if actor.Name != current {
		return nil, errs.NewError(errs.ErrNotYourTurn)
	}

	if len(cards) == 0 {
		return nil, errs.NewError(errs.ErrNoCards)
	}

	if len(board) > 0 && len(cards) != len(board) {
		return nil, errs.NewError(errs.ErrTrickSizeMismatch)
	}

	rank := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank != rank {
			return nil, errs.NewError(errs.ErrMixedRanks)
		}
	}

	if len(board) > 0 && rank <= board[0].Rank {
		return nil, errs.NewError(errs.ErrRankTooLow)
	}

	remaining, missing := removeCards(actor.Hand, cards)
	if missing != nil {
		return nil, errs.NewError(errs.ErrCardNotInHand, missing.String())
	}

	return remaining, nil
}

func (s *Session) play(u *User, cards []Card) error {
	remaining, err := validatePlay(s.seq.Current(), u, s.board, cards)
	if err != nil {
		return err
	}

	u.Hand = remaining
	s.discard = append(s.discard, s.board...)
	s.board = append([]Card(nil), cards...)
	s.lastPlayer = u.Name

	s.logger.Debug().
		Str("username", u.Name).
		Int("rank", cards[0].Rank).
		Int("count", len(cards)).
		Msg("Cards played.")

	if len(u.Hand) == 0 && s.finish(u) {
		return nil
	}

	if cards[0].Rank == MaxRank {
		s.endRound()
		return nil
	}

	s.advance()
	if s.seq.Current() == s.lastPlayer {
		s.endRound()
		return nil
	}

	s.broadcastState(EventGameStateChange)
	return nil
}

func (s *Session) pass(u *User) error {
	if u.Name != s.seq.Current() {
		return errs.NewError(errs.ErrNotYourTurn)
	}

	if len(s.board) == 0 {
		return errs.NewError(errs.ErrPassWhileLeading)
	}

	u.Passed = true
	s.advance()

	if s.seq.Current() == s.lastPlayer {
		s.endRound()
		return nil
	}

	s.broadcastState(EventGameStateChange)
	return nil
}

// advance moves the turn to the next active player, stopping on the board's leader.
func (s *Session) advance() {
	s.seq.Advance(s.lastPlayer, func(name string) bool {
		u := s.user(name)
		return u != nil && u.active()
	})
}

// endRound freezes the board for RoundDelay before the next round opens.
func (s *Session) endRound() {
	s.phase = PhaseResolvingRound
	s.logger.Debug().Str("last_player", s.lastPlayer).Msg("Round ended.")

	s.broadcastState(EventRoundEnd)
	s.schedule(TimerRoundRestart, s.cfg.RoundDelay)
}

// newRound clears the board and passes. The leader of the cleared round acts
// next unless they have finished their hand meanwhile.
func (s *Session) newRound() {
	s.discard = append(s.discard, s.board...)
	s.board = nil
	s.lastPlayer = ""
	for _, u := range s.users {
		u.Passed = false
	}
	s.phase = PhasePlaying

	if u := s.user(s.seq.Current()); u == nil || !u.active() {
		s.advance()
	}

	s.logger.Debug().Str("current_player", s.seq.Current()).Msg("Round restarted.")
	s.broadcastState(EventGameStateChange)
}
