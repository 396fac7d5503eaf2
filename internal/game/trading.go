package game

import (
	"slices"

	"scum/internal/pkg/errs"
)

const (
	// kingTradeSize is how many cards pass between scum and king each way.
	kingTradeSize = 2

	// queenTradeSize is how many cards pass between vice-scum and queen each way.
	queenTradeSize = 1
)

// dealHands shuffles a fresh deck and deals it in player order, clearing all per-hand state.
func (s *Session) dealHands() {
	order := s.seq.Order()

	s.deck = NewDeck(len(order))
	shuffled := slices.Clone(s.deck)
	Shuffle(s.cfg.Rand, shuffled)

	for i, hand := range Deal(shuffled, len(order)) {
		s.user(order[i]).Hand = hand
	}

	s.board = nil
	s.discard = nil
	s.lastPlayer = ""
	s.finishOrder = nil
	for _, u := range s.users {
		u.Passed = false
		u.Finished = false
	}
}

// beginHand deals the next hand and performs the forced trades toward king and queen.
// Play stays closed until king and queen have sent their returns.
func (s *Session) beginHand() {
	s.handNumber++
	s.dealHands()
	s.phase = PhaseTrading
	clear(s.owedTrades)

	king, scum := s.holder(King), s.holder(Scum)
	if king == nil || scum == nil {
		panic("game: a resolved hand must leave a king and a scum")
	}
	s.seq.SetCursor(scum.Name)

	kingCards := s.forceTrade(scum, king, kingTradeSize)

	var queen, viceScum *User
	var queenCards []Card
	if s.playerCount() >= fullHierarchyPlayers {
		queen, viceScum = s.holder(Queen), s.holder(ViceScum)
		if queen == nil || viceScum == nil {
			panic("game: a resolved hand of four or more must leave a queen and a vice-scum")
		}
		queenCards = s.forceTrade(viceScum, queen, queenTradeSize)
	}

	s.logger.Info().
		Int("hand", s.handNumber).
		Str("king", king.Name).
		Str("scum", scum.Name).
		Msg("Hand dealt. Waiting on return trades.")

	s.broadcastState(EventGameStateChange)

	s.notifier.Send(scum.Name, CardsSent{Player: king.Name, Cards: kingCards})
	s.notifier.Send(king.Name, CardsReceived{Player: scum.Name, Cards: kingCards})
	if queen != nil {
		s.notifier.Send(viceScum.Name, CardsSent{Player: queen.Name, Cards: queenCards})
		s.notifier.Send(queen.Name, CardsReceived{Player: viceScum.Name, Cards: queenCards})
	}
}

// forceTrade moves donor's n highest cards to recipient and marks recipient as owing a return.
func (s *Session) forceTrade(donor, recipient *User, n int) []Card {
	taken, rest := highestCards(donor.Hand, n)
	donor.Hand = rest
	recipient.Hand = append(recipient.Hand, taken...)
	s.owedTrades[recipient.Name] = struct{}{}
	return taken
}

// sendCards accepts a king's or queen's return trade.
func (s *Session) sendCards(u *User, cards []Card) error {
	if _, owed := s.owedTrades[u.Name]; !owed {
		return errs.NewError(errs.ErrNotOwedTrade)
	}

	var recipient *User
	switch u.Position {
	case King:
		if len(cards) != kingTradeSize {
			return errs.NewError(errs.ErrKingTradeCount)
		}
		recipient = s.holder(Scum)
	case Queen:
		if len(cards) != queenTradeSize {
			return errs.NewError(errs.ErrQueenTradeCount)
		}
		recipient = s.holder(ViceScum)
	default:
		return errs.NewError(errs.ErrNotOwedTrade)
	}

	if recipient == nil {
		return errs.NewError(errs.ErrNotOwedTrade)
	}

	remaining, missing := removeCards(u.Hand, cards)
	if missing != nil {
		return errs.NewError(errs.ErrCardNotInHand, missing.String())
	}

	sent := slices.Clone(cards)
	u.Hand = remaining
	recipient.Hand = append(recipient.Hand, sent...)
	delete(s.owedTrades, u.Name)

	s.logger.Debug().
		Str("from", u.Name).
		Str("to", recipient.Name).
		Int("count", len(sent)).
		Msg("Return trade accepted.")

	s.notifier.Send(recipient.Name, CardsReceived{Player: u.Name, Cards: sent})
	s.notifier.Send(u.Name, CardsSent{Player: recipient.Name, Cards: sent})
	s.broadcastState(EventGameStateChange)

	if len(s.owedTrades) == 0 {
		s.schedule(TimerTradesDone, s.cfg.TradeDelay)
	}

	return nil
}

// resumePlay opens the hand; the scum leads.
func (s *Session) resumePlay() {
	s.phase = PhasePlaying
	if scum := s.holder(Scum); scum != nil {
		s.seq.SetCursor(scum.Name)
	}

	s.logger.Info().Int("hand", s.handNumber).Str("leader", s.seq.Current()).Msg("Hand begins.")

	s.broadcast(HandBegin{})
	s.broadcastState(EventGameStateChange)
}
