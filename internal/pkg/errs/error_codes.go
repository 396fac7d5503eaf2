/*
Package errs provides custom error types and application-level error code constants.

These error codes identify every rejected intent, both in server logs and in the
badRequest events sent back to players.
*/
package errs

// 1xxx: Request and Protocol Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that an inbound frame was not a valid JSON envelope.
	ErrInvalidJSONFormat = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrUnsupportedIntent indicates an intent type the server does not know.
	ErrUnsupportedIntent = 1101

	// ErrIntentOutOfPhase indicates a known intent sent during a phase that does not accept it.
	ErrIntentOutOfPhase = 1102

	// ErrInvalidCard indicates a card string that is not in canonical form.
	ErrInvalidCard = 1103

	// ErrNoCards indicates a play or trade carrying no cards.
	ErrNoCards = 1104
)

// 2xxx: Table and Lobby Errors
const (
	// ErrTableFull indicates that the table already seats the maximum number of players.
	ErrTableFull = 2101

	// ErrGameInProgress indicates that new players cannot join after the first deal.
	ErrGameInProgress = 2102

	// ErrNotEnoughPlayers indicates a start request with fewer than two users.
	ErrNotEnoughPlayers = 2103

	// ErrPlayerNotReady indicates a start request while someone is not ready.
	ErrPlayerNotReady = 2104

	// ErrLedgerDisabled indicates that the hand-results ledger is not configured.
	ErrLedgerDisabled = 2201
)

// 3xxx: Identity and Session Errors
const (
	// ErrUsernameTaken indicates a fresh login with a username already at the table.
	ErrUsernameTaken = 3001

	// ErrInvalidUsername indicates a username outside the allowed charset or length.
	ErrInvalidUsername = 3002

	// ErrBadReconnectionToken indicates a reconnection token that failed verification.
	ErrBadReconnectionToken = 3003

	// ErrSessionKicked indicates that the current connection was replaced by a newer one.
	ErrSessionKicked = 3004

	// ErrAlreadyLoggedIn indicates a login request on an authenticated connection.
	ErrAlreadyLoggedIn = 3005

	// ErrNotLoggedIn indicates a game intent sent before login.
	ErrNotLoggedIn = 3006
)

// 4xxx: Game Rule Errors
const (
	// ErrNotYourTurn indicates a play or pass from someone other than the current player.
	ErrNotYourTurn = 4001

	// ErrTrickSizeMismatch indicates a play whose card count differs from the board's.
	ErrTrickSizeMismatch = 4002

	// ErrMixedRanks indicates a play containing more than one rank.
	ErrMixedRanks = 4003

	// ErrRankTooLow indicates a play that does not exceed the board's rank.
	ErrRankTooLow = 4004

	// ErrCardNotInHand indicates a play or trade naming a card the user does not hold.
	ErrCardNotInHand = 4005

	// ErrPassWhileLeading indicates a pass on an empty board.
	ErrPassWhileLeading = 4006

	// ErrNotOwedTrade indicates a trade from a user the table is not waiting on.
	ErrNotOwedTrade = 4101

	// ErrKingTradeCount indicates a king returning other than two cards.
	ErrKingTradeCount = 4102

	// ErrQueenTradeCount indicates a queen returning other than one card.
	ErrQueenTradeCount = 4103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
