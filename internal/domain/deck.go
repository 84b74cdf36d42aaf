package domain

import (
	"math/rand"
)

// NewDeck returns the ordered 108-card double deck: two copies of every
// standard card plus two small and two big jokers.
func NewDoubleDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for copyTag := 0; copyTag < DeckCopies; copyTag++ {
		for _, s := range StandardSuits {
			for r := Two; r <= Ace; r++ {
				deck = append(deck, Card{Suit: s, Rank: r, Deck: copyTag})
			}
		}
		deck = append(deck, Card{Rank: SmallJoker, Deck: copyTag}, Card{Rank: BigJoker, Deck: copyTag})
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal splits a full deck into four hands and the kitty.
func Deal(deck []Card) (hands [NumSeats][]Card, kitty []Card) {
	for seat := 0; seat < NumSeats; seat++ {
		hands[seat] = make([]Card, 0, HandSize)
	}
	for i := 0; i < NumSeats*HandSize && i < len(deck); i++ {
		hands[i%NumSeats] = append(hands[i%NumSeats], deck[i])
	}
	if len(deck) > NumSeats*HandSize {
		kitty = append(kitty, deck[NumSeats*HandSize:]...)
	}
	return hands, kitty
}

// RemoveCards removes the specified cards from a hand and returns the updated
// hand. Cards are matched by face, so the deck tag of a removed copy does
// not matter.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := faceCounts(toRemove)
	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count := removeCounts[card.Face()]; count > 0 {
			removeCounts[card.Face()] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}

// ContainsAll reports whether hand holds every card of subset, counting
// duplicate faces.
func ContainsAll(hand []Card, subset []Card) bool {
	have := faceCounts(hand)
	for _, c := range subset {
		if have[c.Face()] == 0 {
			return false
		}
		have[c.Face()]--
	}
	return true
}

func faceCounts(cards []Card) map[Face]int {
	counts := make(map[Face]int, len(cards))
	for _, c := range cards {
		counts[c.Face()]++
	}
	return counts
}
