package game

// User is one seat at the table. Identity and transport live outside the core;
// the session only tracks game state keyed by username.
type User struct {
	Name     string
	Hand     []Card
	Ready    bool
	Passed   bool
	Position Position

	// Finished is set once the user is placed in the hand's finish order.
	// A force-finished straggler is Finished with cards still in hand.
	Finished bool
}

// active reports whether the user can still take a turn this round.
func (u *User) active() bool {
	return !u.Passed && !u.Finished && len(u.Hand) > 0
}
