package game

import "time"

// TimerKind names a deferred transition.
type TimerKind int

const (
	// TimerRoundRestart reopens the board after a round ends.
	TimerRoundRestart TimerKind = iota + 1

	// TimerHandStart deals the next hand after a hand ends.
	TimerHandStart

	// TimerTradesDone resumes play once every forced trade is returned.
	TimerTradesDone
)

func (k TimerKind) String() string {
	switch k {
	case TimerRoundRestart:
		return "round-restart"
	case TimerHandStart:
		return "hand-start"
	case TimerTradesDone:
		return "trades-done"
	default:
		return "unknown"
	}
}

// Timer identifies one scheduled transition. Seq is unique per session, so a
// timer that fires after the session has scheduled a newer one is recognisably stale.
type Timer struct {
	Kind TimerKind
	Seq  uint64
}

// Scheduler arranges for Session.Fire(t) to run after delay on the same
// serialized path as every other mutation. It must not block.
type Scheduler interface {
	Schedule(delay time.Duration, t Timer)
}
