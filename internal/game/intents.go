package game

// IntentType tags every inbound intent on the wire.
type IntentType string

const (
	IntentLoginRequest     IntentType = "loginRequest"
	IntentSetReadyState    IntentType = "setReadyState"
	IntentRequestGameStart IntentType = "requestGameStart"
	IntentPlayCards        IntentType = "playCards"
	IntentPass             IntentType = "pass"
	IntentSendCards        IntentType = "sendCards"
)

// Intent is the closed set of game actions a logged-in user can submit.
// Login is resolved by the connection layer before any Intent reaches the session.
type Intent interface {
	Type() IntentType
}

type SetReadyState struct {
	Ready bool
}

func (SetReadyState) Type() IntentType { return IntentSetReadyState }

type RequestGameStart struct{}

func (RequestGameStart) Type() IntentType { return IntentRequestGameStart }

type PlayCards struct {
	Cards []Card
}

func (PlayCards) Type() IntentType { return IntentPlayCards }

type Pass struct{}

func (Pass) Type() IntentType { return IntentPass }

type SendCards struct {
	Cards []Card
}

func (SendCards) Type() IntentType { return IntentSendCards }
