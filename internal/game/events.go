package game

// EventType tags every outbound event on the wire.
type EventType string

const (
	EventLoginAccepted    EventType = "loginAccepted"
	EventReadyStateChange EventType = "readyStateChange"
	EventGameStart        EventType = "gameStart"
	EventGameStateChange  EventType = "gameStateChange"
	EventRoundEnd         EventType = "roundEnd"
	EventHandEnd          EventType = "handEnd"
	EventHandBegin        EventType = "handBegin"
	EventCardsSent        EventType = "cardsSent"
	EventCardsReceived    EventType = "cardsReceived"
	EventBadRequest       EventType = "badRequest"
)

// Event is the closed set of messages sent to a user.
type Event interface {
	Type() EventType
}

// Notifier delivers an event to one user. Implementations must not block:
// a slow or missing recipient must never stall the session.
type Notifier interface {
	Send(username string, ev Event)
}

type LoginAccepted struct {
	Username          string `json:"username"`
	ReconnectionToken string `json:"reconnectionToken,omitempty"`
}

func (LoginAccepted) Type() EventType { return EventLoginAccepted }

type ReadyStateChange struct {
	ReadyStates map[string]bool `json:"readyStates"`
}

func (ReadyStateChange) Type() EventType { return EventReadyStateChange }

// PlayerView is the public part of a seat; it never carries the hand itself.
type PlayerView struct {
	Username string   `json:"username"`
	Position Position `json:"position"`
	Passed   bool     `json:"passed"`
	Finished bool     `json:"finished"`
	HandSize int      `json:"handSize"`
}

// GameState is a full snapshot for one recipient. Kind is one of
// EventGameStart, EventGameStateChange or EventRoundEnd.
type GameState struct {
	Kind          EventType    `json:"-"`
	Phase         Phase        `json:"phase"`
	Players       []PlayerView `json:"players"`
	CurrentPlayer string       `json:"currentPlayer"`
	LastPlayer    string       `json:"lastPlayer"`
	Board         []Card       `json:"board"`
	Hand          []Card       `json:"hand"`
}

func (g GameState) Type() EventType { return g.Kind }

type HandEnd struct {
	FinishOrder []string `json:"finishOrder"`
}

func (HandEnd) Type() EventType { return EventHandEnd }

type HandBegin struct{}

func (HandBegin) Type() EventType { return EventHandBegin }

// CardsSent tells a donor which cards left their hand and to whom.
type CardsSent struct {
	Player string `json:"player"`
	Cards  []Card `json:"cards"`
}

func (CardsSent) Type() EventType { return EventCardsSent }

// CardsReceived tells a recipient which cards arrived and from whom.
type CardsReceived struct {
	Player string `json:"player"`
	Cards  []Card `json:"cards"`
}

func (CardsReceived) Type() EventType { return EventCardsReceived }

type BadRequest struct {
	Error string `json:"error"`
}

func (BadRequest) Type() EventType { return EventBadRequest }
