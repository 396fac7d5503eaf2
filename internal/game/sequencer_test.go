package game

import "testing"

func TestSequencerAdvance(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		leader     string
		ineligible []string
		want       string
	}{
		{name: "next player", start: "a", leader: "a", want: "b"},
		{name: "wraps around", start: "d", leader: "d", want: "a"},
		{name: "skips ineligible", start: "a", leader: "a", ineligible: []string{"b", "c"}, want: "d"},
		{name: "returns to leader when all others out", start: "b", leader: "a", ineligible: []string{"a", "c", "d"}, want: "a"},
		{name: "stops on leader before later eligible player", start: "d", leader: "a", ineligible: []string{"b"}, want: "a"},
		{name: "no leader finds next eligible", start: "a", leader: "", ineligible: []string{"a", "b"}, want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Sequencer
			q.Freeze([]string{"a", "b", "c", "d"})
			q.SetCursor(tt.start)

			out := make(map[string]bool)
			for _, name := range tt.ineligible {
				out[name] = true
			}

			q.Advance(tt.leader, func(name string) bool { return !out[name] })

			if got := q.Current(); got != tt.want {
				t.Fatalf("Current() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSequencerAdvanceBounded(t *testing.T) {
	var q Sequencer
	q.Freeze([]string{"a", "b", "c"})
	q.SetCursor("b")

	q.Advance("", func(string) bool { return false })

	if got := q.Current(); got != "b" {
		t.Fatalf("Current() = %q, want the cursor back on b after one lap", got)
	}
}

func TestSequencerFreezeOnce(t *testing.T) {
	var q Sequencer
	if q.Current() != "" {
		t.Fatal("Current() before Freeze should be empty")
	}

	q.Freeze([]string{"a", "b"})
	q.Freeze([]string{"x", "y"})

	if got := q.Order(); got[0] != "a" || got[1] != "b" {
		t.Fatalf("Order() = %v, want [a b]", got)
	}
	if q.SetCursor("x") {
		t.Fatal("SetCursor on an unseated name should fail")
	}
}
