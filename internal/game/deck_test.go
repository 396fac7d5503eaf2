package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestNewDeckSize(t *testing.T) {
	tests := []struct {
		players int
		want    int
	}{
		{players: 2, want: 52},
		{players: 5, want: 52},
		{players: 6, want: 104},
		{players: 8, want: 104},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d players", tt.players), func(t *testing.T) {
			if got := len(NewDeck(tt.players)); got != tt.want {
				t.Fatalf("len(NewDeck(%d)) = %d, want %d", tt.players, got, tt.want)
			}
		})
	}
}

func TestDealExhaustsDeck(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))

	for n := MinPlayers; n <= MaxPlayers; n++ {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			deck := NewDeck(n)
			shuffled := slices.Clone(deck)
			Shuffle(r, shuffled)

			hands := Deal(shuffled, n)
			if len(hands) != n {
				t.Fatalf("got %d hands, want %d", len(hands), n)
			}

			var union []Card
			for i, hand := range hands {
				if i > 0 && len(hand) > len(hands[i-1]) {
					t.Fatalf("hand %d has %d cards, more than hand %d with %d", i, len(hand), i-1, len(hands[i-1]))
				}
				if len(hands[0])-len(hand) > 1 {
					t.Fatalf("hand sizes differ by more than one: %d vs %d", len(hands[0]), len(hand))
				}
				union = append(union, hand...)
			}

			slices.SortFunc(union, compareCards)
			want := sortedCopy(deck)
			if !slices.Equal(union, want) {
				t.Fatalf("union of hands does not equal the generated deck")
			}
		})
	}
}

func TestDealRemainderGoesFirst(t *testing.T) {
	hands := Deal(NewDeck(3), 3)
	got := []int{len(hands[0]), len(hands[1]), len(hands[2])}
	if want := []int{18, 17, 17}; !slices.Equal(got, want) {
		t.Fatalf("hand sizes = %v, want %v", got, want)
	}

	hands = Deal(NewDeck(7), 7)
	if len(hands[0]) != 15 || len(hands[6]) != 14 {
		t.Fatalf("7 players: first = %d, last = %d; want 15 and 14", len(hands[0]), len(hands[6]))
	}
}

func TestShuffleUniform(t *testing.T) {
	const trials = 24000
	r := rand.New(rand.NewPCG(42, 1))
	base := MustParseCards("01C", "02C", "03C", "04C")

	counts := make(map[string]int)
	for range trials {
		deck := slices.Clone(base)
		Shuffle(r, deck)
		counts[fmt.Sprint(deck)]++
	}

	if len(counts) != 24 {
		t.Fatalf("saw %d distinct permutations, want 24", len(counts))
	}

	// Each permutation expects 1000 hits with a standard deviation near 31.
	for perm, n := range counts {
		if n < 850 || n > 1150 {
			t.Errorf("permutation %s seen %d times, want about 1000", perm, n)
		}
	}
}

func TestShuffleMovesEveryPosition(t *testing.T) {
	const trials = 5200
	r := rand.New(rand.NewPCG(3, 9))
	base := NewDeck(2)

	// How often the top card of the unshuffled deck lands in each slot.
	landed := make([]int, len(base))
	for range trials {
		deck := slices.Clone(base)
		Shuffle(r, deck)
		landed[slices.Index(deck, base[0])]++
	}

	for pos, n := range landed {
		if n < 50 || n > 160 {
			t.Errorf("top card landed in slot %d %d times, want about 100", pos, n)
		}
	}
}
