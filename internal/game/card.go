package game

import (
	"fmt"
	"slices"
	"strconv"
)

const (
	// MinRank is the lowest card rank.
	MinRank = 1

	// MaxRank is the unbeatable top rank; playing it closes the round.
	MaxRank = 13
)

// Suit is one of the four suit letters.
type Suit byte

const (
	Clubs    Suit = 'C'
	Diamonds Suit = 'D'
	Hearts   Suit = 'H'
	Spades   Suit = 'S'
)

// Suits lists the suits in deck-building order.
var Suits = [4]Suit{Clubs, Diamonds, Hearts, Spades}

func (s Suit) valid() bool {
	return s == Clubs || s == Diamonds || s == Hearts || s == Spades
}

// Card is an immutable rank/suit value. Two cards are equal when their canonical forms are.
type Card struct {
	Rank int
	Suit Suit
}

// String returns the canonical form: zero-padded two-digit rank then the suit letter ("01S").
func (c Card) String() string {
	return fmt.Sprintf("%02d%c", c.Rank, c.Suit)
}

// MarshalText encodes the card in canonical form.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card from canonical form.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a canonical card string.
func ParseCard(s string) (Card, error) {
	if len(s) != 3 {
		return Card{}, fmt.Errorf("card %q: want 3 characters", s)
	}

	rank, err := strconv.Atoi(s[:2])
	if err != nil || rank < MinRank || rank > MaxRank {
		return Card{}, fmt.Errorf("card %q: rank must be %02d-%02d", s, MinRank, MaxRank)
	}

	suit := Suit(s[2])
	if !suit.valid() {
		return Card{}, fmt.Errorf("card %q: unknown suit %q", s, s[2])
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses every string, returning the first offending string on failure.
func ParseCards(raw []string) ([]Card, string, error) {
	cards := make([]Card, 0, len(raw))
	for _, s := range raw {
		c, err := ParseCard(s)
		if err != nil {
			return nil, s, err
		}
		cards = append(cards, c)
	}
	return cards, "", nil
}

// MustParseCards parses canonical strings and panics on error. For fixtures.
func MustParseCards(raw ...string) []Card {
	cards, _, err := ParseCards(raw)
	if err != nil {
		panic(err)
	}
	return cards
}

// compareCards orders by rank, then suit letter.
func compareCards(a, b Card) int {
	if a.Rank != b.Rank {
		return a.Rank - b.Rank
	}
	return int(a.Suit) - int(b.Suit)
}

// sortedCopy returns the cards ordered by rank then suit; the input is untouched.
func sortedCopy(cards []Card) []Card {
	out := slices.Clone(cards)
	if out == nil {
		out = []Card{}
	}
	slices.SortFunc(out, compareCards)
	return out
}

// removeCards removes each wanted card from hand one at a time.
// It returns the remaining hand, or the first card that could not be matched.
// The input hand is never modified.
func removeCards(hand, wanted []Card) ([]Card, *Card) {
	remaining := slices.Clone(hand)
	for _, w := range wanted {
		idx := slices.Index(remaining, w)
		if idx == -1 {
			missing := w
			return nil, &missing
		}
		remaining = slices.Delete(remaining, idx, idx+1)
	}
	return remaining, nil
}

// highestCards returns the n highest cards by rank and the hand without them.
// Among equal ranks the card earlier in the hand is taken first.
func highestCards(hand []Card, n int) (taken, rest []Card) {
	if n > len(hand) {
		n = len(hand)
	}

	byRank := slices.Clone(hand)
	slices.SortStableFunc(byRank, func(a, b Card) int { return b.Rank - a.Rank })
	taken = byRank[:n:n]

	rest, _ = removeCards(hand, taken)
	return taken, rest
}
