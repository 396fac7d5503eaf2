package game

import "slices"

// finish records u's empty hand. When only one player still holds cards they
// are finished too and the hand resolves; finish then reports true.
func (s *Session) finish(u *User) (handOver bool) {
	s.place(u)

	var remaining []*User
	for _, other := range s.users {
		if !other.Finished {
			remaining = append(remaining, other)
		}
	}

	switch len(remaining) {
	case 0:
		s.endHand()
		return true
	case 1:
		s.place(remaining[0])
		s.endHand()
		return true
	default:
		return false
	}
}

// place appends u to the finish order and assigns the position it earns.
func (s *Session) place(u *User) {
	u.Finished = true
	s.finishOrder = append(s.finishOrder, u.Name)

	pos := positionFor(len(s.finishOrder), s.playerCount())
	if pos == ViceScum {
		// The outgoing vice-scum can only be the last player still holding cards.
		if prev := s.holder(ViceScum); prev != nil && prev != u {
			s.assign(prev, Scum)
		}
	}
	s.assign(u, pos)

	s.logger.Info().
		Str("username", u.Name).
		Int("place", len(s.finishOrder)).
		Stringer("position", pos).
		Msg("Player finished hand.")
}

// positionFor maps a 1-based finishing place to a position for a table of n players.
func positionFor(place, n int) Position {
	switch {
	case place == 1:
		return King
	case place == 2 && n >= fullHierarchyPlayers:
		return Queen
	case place == n-1 && n >= fullHierarchyPlayers:
		return ViceScum
	case place == n:
		return Scum
	default:
		return Neutral
	}
}

// assign gives u the position, displacing any other holder to neutral.
func (s *Session) assign(u *User, pos Position) {
	if pos != Neutral {
		for _, other := range s.users {
			if other != u && other.Position == pos {
				other.Position = Neutral
			}
		}
	}
	u.Position = pos
}

// endHand moves the table into trading and schedules the next deal.
func (s *Session) endHand() {
	s.phase = PhaseTrading

	positions := make(map[string]Position, len(s.users))
	for _, u := range s.users {
		positions[u.Name] = u.Position
	}

	s.logger.Info().
		Int("hand", s.handNumber).
		Strs("finish_order", s.finishOrder).
		Msg("Hand ended.")

	s.broadcast(HandEnd{FinishOrder: slices.Clone(s.finishOrder)})
	s.broadcastState(EventGameStateChange)

	if s.cfg.OnHandEnd != nil {
		s.cfg.OnHandEnd(HandResult{
			HandNumber:  s.handNumber,
			FinishOrder: slices.Clone(s.finishOrder),
			Positions:   positions,
		})
	}

	s.schedule(TimerHandStart, s.cfg.HandDelay)
}
