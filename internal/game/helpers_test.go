package game

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

type delivery struct {
	to string
	ev Event
}

// recorder is a Notifier that keeps every delivery in order.
type recorder struct {
	sent []delivery
}

func (r *recorder) Send(username string, ev Event) {
	r.sent = append(r.sent, delivery{to: username, ev: ev})
}

func (r *recorder) reset() { r.sent = nil }

// count returns how many events of type t were delivered to anyone.
func (r *recorder) count(t EventType) int {
	n := 0
	for _, d := range r.sent {
		if d.ev.Type() == t {
			n++
		}
	}
	return n
}

// last returns the most recent event of type t delivered to username.
func (r *recorder) last(username string, t EventType) (Event, bool) {
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].to == username && r.sent[i].ev.Type() == t {
			return r.sent[i].ev, true
		}
	}
	return nil, false
}

type scheduled struct {
	delay time.Duration
	timer Timer
}

// manualScheduler records timers; tests fire them explicitly.
type manualScheduler struct {
	queue []scheduled
}

func (m *manualScheduler) Schedule(delay time.Duration, t Timer) {
	m.queue = append(m.queue, scheduled{delay: delay, timer: t})
}

// fireNext fires the oldest queued timer and reports whether there was one.
func (m *manualScheduler) fireNext(s *Session) (Timer, bool) {
	if len(m.queue) == 0 {
		return Timer{}, false
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	s.Fire(next.timer)
	return next.timer, true
}

type harness struct {
	s     *Session
	rec   *recorder
	sched *manualScheduler
	hands []HandResult
}

var testDelays = Config{
	RoundDelay: 2 * time.Second,
	HandDelay:  3 * time.Second,
	TradeDelay: 4 * time.Second,
}

func newHarness(t *testing.T, names ...string) *harness {
	t.Helper()

	h := &harness{rec: &recorder{}, sched: &manualScheduler{}}
	cfg := testDelays
	cfg.Rand = rand.New(rand.NewPCG(1, 2))
	cfg.OnHandEnd = func(r HandResult) { h.hands = append(h.hands, r) }
	h.s = NewSession(cfg, h.rec, h.sched)

	for _, name := range names {
		if err := h.s.Join(name); err != nil {
			t.Fatalf("Join(%q) error = %v", name, err)
		}
	}
	return h
}

// started joins, readies and starts a table.
func started(t *testing.T, names ...string) *harness {
	t.Helper()

	h := newHarness(t, names...)
	for _, name := range names {
		h.mustHandle(t, name, SetReadyState{Ready: true})
	}
	h.mustHandle(t, names[0], RequestGameStart{})
	return h
}

func (h *harness) mustHandle(t *testing.T, username string, in Intent) {
	t.Helper()
	if err := h.s.Handle(username, in); err != nil {
		t.Fatalf("Handle(%q, %T) error = %v", username, in, err)
	}
}

// rig replaces the dealt state with fixed hands and turn order. The deck for
// conservation checks becomes the union of the given hands.
func (h *harness) rig(order []string, hands map[string][]Card) {
	s := h.s
	s.seq = Sequencer{}
	s.seq.Freeze(order)
	s.deck = nil
	for _, name := range order {
		u := s.user(name)
		u.Hand = slices.Clone(hands[name])
		u.Passed = false
		u.Finished = false
		s.deck = append(s.deck, u.Hand...)
	}
	s.board = nil
	s.discard = nil
	s.lastPlayer = ""
	s.finishOrder = nil
	s.phase = PhasePlaying
}

func (h *harness) hand(t *testing.T, username string) []Card {
	t.Helper()
	u, ok := h.s.User(username)
	if !ok {
		t.Fatalf("no user %q", username)
	}
	return u.Hand
}

func (h *harness) position(t *testing.T, username string) Position {
	t.Helper()
	u, ok := h.s.User(username)
	if !ok {
		t.Fatalf("no user %q", username)
	}
	return u.Position
}
