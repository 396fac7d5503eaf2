package game

import (
	"math/rand/v2"
)

// DeckSize is the number of cards in one standard deck.
const DeckSize = 52

// playersPerDeck is how many players one standard deck serves.
const playersPerDeck = 5

// deckCopies returns how many standard decks a table of playerCount needs.
func deckCopies(playerCount int) int {
	return (playerCount + playersPerDeck - 1) / playersPerDeck
}

// NewDeck builds the unshuffled deck for playerCount players:
// every rank of every suit, once per deck copy.
func NewDeck(playerCount int) []Card {
	copies := deckCopies(playerCount)
	deck := make([]Card, 0, DeckSize*copies)

	for range copies {
		for _, suit := range Suits {
			for rank := MinRank; rank <= MaxRank; rank++ {
				deck = append(deck, Card{Rank: rank, Suit: suit})
			}
		}
	}

	return deck
}

// Shuffle permutes deck in place with a Fisher-Yates shuffle driven by r.
func Shuffle(r *rand.Rand, deck []Card) {
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Deal splits deck into hands for n players in order. Each player takes
// ceil(remaining cards / remaining players), so earlier players never get fewer
// cards than later ones and the deck is used up exactly.
//
// The larger remainder hands always go to the front of the order; this is not
// rotated between hands.
func Deal(deck []Card, n int) [][]Card {
	hands := make([][]Card, n)
	rest := deck

	for i := range n {
		remainingPlayers := n - i
		take := (len(rest) + remainingPlayers - 1) / remainingPlayers

		hands[i] = append([]Card(nil), rest[:take]...)
		rest = rest[take:]
	}

	return hands
}
