package game

import "slices"

// Sequencer holds the fixed player order and the current-turn cursor.
// The order is frozen by the first deal and never reshuffled.
type Sequencer struct {
	order  []string
	cursor int
}

// Frozen reports whether the player order has been set.
func (q *Sequencer) Frozen() bool {
	return len(q.order) > 0
}

// Freeze sets the player order once. Later calls are ignored.
func (q *Sequencer) Freeze(order []string) {
	if q.Frozen() {
		return
	}
	q.order = slices.Clone(order)
	q.cursor = 0
}

// Order returns a copy of the player order.
func (q *Sequencer) Order() []string {
	return slices.Clone(q.order)
}

// Current returns the username at the cursor, or "" before the order is frozen.
func (q *Sequencer) Current() string {
	if !q.Frozen() {
		return ""
	}
	return q.order[q.cursor]
}

// SetCursor moves the cursor onto name. It reports false if name is not seated.
func (q *Sequencer) SetCursor(name string) bool {
	idx := slices.Index(q.order, name)
	if idx == -1 {
		return false
	}
	q.cursor = idx
	return true
}

// Advance moves the cursor forward circularly, skipping players for whom eligible
// is false. It stops on leader even when leader is ineligible: landing back on
// the board's leader means everyone else is out and the round is over.
// An empty leader never matches. The walk is bounded to one lap.
func (q *Sequencer) Advance(leader string, eligible func(name string) bool) {
	n := len(q.order)
	for range n {
		q.cursor = (q.cursor + 1) % n
		name := q.order[q.cursor]
		if name == leader || eligible(name) {
			return
		}
	}
}
