package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// Messages containing verbs are formatted with the details passed to NewError.
var errorMap = map[int]CustomError{
	// 1xxx: Request and Protocol Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat: {Code: ErrInvalidJSONFormat, Message: "Malformed message."},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please slow down.", Status: http.StatusTooManyRequests},
	ErrUnsupportedIntent: {Code: ErrUnsupportedIntent, Message: "Unsupported message type %q."},
	ErrIntentOutOfPhase:  {Code: ErrIntentOutOfPhase, Message: "You can't do %s right now."},
	ErrInvalidCard:       {Code: ErrInvalidCard, Message: "%q is not a card."},
	ErrNoCards:           {Code: ErrNoCards, Message: "You must choose at least one card."},

	// 2xxx: Table and Lobby Errors
	ErrTableFull:        {Code: ErrTableFull, Message: "The table is full."},
	ErrGameInProgress:   {Code: ErrGameInProgress, Message: "A game is already in progress."},
	ErrNotEnoughPlayers: {Code: ErrNotEnoughPlayers, Message: "Not enough players to start."},
	ErrPlayerNotReady:   {Code: ErrPlayerNotReady, Message: "%s isn't ready."},
	ErrLedgerDisabled:   {Code: ErrLedgerDisabled, Message: "Hand history is not available.", Status: http.StatusServiceUnavailable},

	// 3xxx: Identity and Session Errors
	ErrUsernameTaken:        {Code: ErrUsernameTaken, Message: "Username taken."},
	ErrInvalidUsername:      {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrBadReconnectionToken: {Code: ErrBadReconnectionToken, Message: "Bad reconnection token; login again without one."},
	ErrSessionKicked:        {Code: ErrSessionKicked, Message: "You signed in from another connection."},
	ErrAlreadyLoggedIn:      {Code: ErrAlreadyLoggedIn, Message: "You're already logged in!"},
	ErrNotLoggedIn:          {Code: ErrNotLoggedIn, Message: "Log in first."},

	// 4xxx: Game Rule Errors
	ErrNotYourTurn:       {Code: ErrNotYourTurn, Message: "It's not your turn!"},
	ErrTrickSizeMismatch: {Code: ErrTrickSizeMismatch, Message: "You must play the same number of cards as are in the middle!"},
	ErrMixedRanks:        {Code: ErrMixedRanks, Message: "All played cards must be of the same rank."},
	ErrRankTooLow:        {Code: ErrRankTooLow, Message: "You must exceed the rank of the cards in the middle!"},
	ErrCardNotInHand:     {Code: ErrCardNotInHand, Message: "You don't have the card %s!"},
	ErrPassWhileLeading:  {Code: ErrPassWhileLeading, Message: "You can't pass when you're leading."},
	ErrNotOwedTrade:      {Code: ErrNotOwedTrade, Message: "Not waiting on a trade from you!"},
	ErrKingTradeCount:    {Code: ErrKingTradeCount, Message: "As king, you must send exactly two cards."},
	ErrQueenTradeCount:   {Code: ErrQueenTradeCount, Message: "As queen, you must send exactly one card."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
