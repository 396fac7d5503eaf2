package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the claims of a reconnection token.
// A token binds a username to the table session that issued it, so a token from a
// previous process lifetime never reattaches to a new table.
type Payload struct {
	// StandardClaims carries expiry, issue time, issuer and the token ID.
	jwt.StandardClaims `json:"standard_claims"`

	// Username is the player the token was issued to.
	Username string `json:"username"`

	// SessionID identifies the table session that issued the token.
	SessionID string `json:"session_id"`
}
