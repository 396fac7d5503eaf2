package game

import "fmt"

// Phase is the session's position in the table lifecycle.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhasePlaying
	PhaseResolvingRound
	PhaseTrading
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseResolvingRound:
		return "resolvingRound"
	case PhaseTrading:
		return "trading"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Position is a player's social rank carried between hands.
type Position int

const (
	Neutral Position = iota
	King
	Queen
	ViceScum
	Scum
)

func (p Position) String() string {
	switch p {
	case Neutral:
		return "neutral"
	case King:
		return "king"
	case Queen:
		return "queen"
	case ViceScum:
		return "vice-scum"
	case Scum:
		return "scum"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for candidate := PhaseWaiting; candidate <= PhaseTrading; candidate++ {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

func (p *Position) UnmarshalText(text []byte) error {
	for candidate := Neutral; candidate <= Scum; candidate++ {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown position %q", text)
}
