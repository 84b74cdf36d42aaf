package domain

import (
	"fmt"
	"strings"
)

// Suit identifies the natural suit of a standard card. Jokers carry SuitNone.
type Suit int

const (
	SuitNone Suit = iota
	Spades
	Hearts
	Clubs
	Diamonds
)

// StandardSuits lists the four natural suits in display order.
var StandardSuits = [...]Suit{Spades, Hearts, Clubs, Diamonds}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	default:
		return "-"
	}
}

// ParseSuit accepts the single-letter suit codes produced by Suit.String.
func ParseSuit(s string) (Suit, error) {
	switch strings.ToUpper(s) {
	case "S":
		return Spades, nil
	case "H":
		return Hearts, nil
	case "C":
		return Clubs, nil
	case "D":
		return Diamonds, nil
	case "", "-", "N":
		return SuitNone, nil
	}
	return SuitNone, fmt.Errorf("unknown suit %q", s)
}

// Rank is the face value of a card. Two..Ace follow natural order, jokers sit above.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	SmallJoker
	BigJoker
)

var rankNames = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

func (r Rank) String() string {
	switch r {
	case SmallJoker:
		return "SJ"
	case BigJoker:
		return "BJ"
	}
	if n, ok := rankNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// IsStandard reports whether r is one of Two..Ace.
func (r Rank) IsStandard() bool { return r >= Two && r <= Ace }

// IsJoker reports whether r is one of the two joker ranks.
func (r Rank) IsJoker() bool { return r == SmallJoker || r == BigJoker }

// Card is one physical card of the double deck. Deck is the copy tag (0 or 1)
// and only distinguishes the two otherwise identical physical cards.
type Card struct {
	Suit Suit
	Rank Rank
	Deck int
}

// Face is a card without its deck tag. Two cards with the same Face are
// interchangeable for every rule.
type Face struct {
	Suit Suit
	Rank Rank
}

// Face drops the deck tag.
func (c Card) Face() Face { return Face{Suit: c.Suit, Rank: c.Rank} }

// IsJoker reports whether the card is a joker.
func (c Card) IsJoker() bool { return c.Rank.IsJoker() }

// Points returns the scoring value of the card: 5 for fives, 10 for tens and kings.
func (c Card) Points() int {
	switch c.Rank {
	case Five:
		return 5
	case Ten, King:
		return 10
	}
	return 0
}

func (c Card) String() string {
	if c.IsJoker() {
		return c.Rank.String()
	}
	return c.Rank.String() + c.Suit.String()
}

// SameFace reports whether two cards are copies of the same face.
func SameFace(a, b Card) bool { return a.Suit == b.Suit && a.Rank == b.Rank }

// TotalPoints sums the scoring value of cards.
func TotalPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// ParseCard reads a card code such as "10H", "AS", "SJ" or "BJ".
func ParseCard(code string) (Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case "SJ":
		return Card{Rank: SmallJoker}, nil
	case "BJ":
		return Card{Rank: BigJoker}, nil
	}
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	suit, err := ParseSuit(code[len(code)-1:])
	if err != nil || suit == SuitNone {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	rank, err := ParseRank(code[:len(code)-1])
	if err != nil || rank.IsJoker() {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseRank reads a rank name such as "2", "10", "K" or "BJ".
func ParseRank(name string) (Rank, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	switch name {
	case "SJ":
		return SmallJoker, nil
	case "BJ":
		return BigJoker, nil
	}
	for r, n := range rankNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", name)
}

// ParseCards reads a whitespace separated list of card codes. Repeated faces
// receive increasing deck tags so the result mirrors physical cards.
func ParseCards(codes string) ([]Card, error) {
	fields := strings.Fields(codes)
	cards := make([]Card, 0, len(fields))
	seen := make(map[Face]int, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		c.Deck = seen[c.Face()]
		seen[c.Face()]++
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixed literals.
func MustParseCards(codes string) []Card {
	cards, err := ParseCards(codes)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards as space separated codes.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
