/*
Package user contains the connection-level identity of a table participant.

A User exists per websocket connection once it has logged in. Game state for the
same name lives in the game session; this package only knows who the connection
claims to be and when its reconnection token runs out.
*/
package user

import (
	"regexp"
	"time"

	"scum/internal/pkg/errs"
)

// MaxUsernameLength is the longest accepted username.
const MaxUsernameLength = 20

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

// User represents the identity bound to a logged-in connection.
type User struct {
	// Username is the name the player logged in with; unique at the table.
	Username string `json:"username"`

	// TokenExpiry records when the reconnection token last issued to this connection expires.
	TokenExpiry time.Time `json:"-"`
}

// LoggedIn reports whether the connection has completed login.
func (u User) LoggedIn() bool {
	return u.Username != ""
}

// ValidateUsername checks name against the allowed character set and length.
func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return errs.NewError(errs.ErrInvalidUsername)
	}
	return nil
}
