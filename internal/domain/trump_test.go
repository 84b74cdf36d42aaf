package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func card(code string) Card { return MustParseCards(code)[0] }

func TestTractorRankTiers(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Hearts}

	order := []string{"AS", "3H", "AH", "2S", "2H", "SJ", "BJ"}
	for i := 1; i < len(order); i++ {
		lo, hi := card(order[i-1]), card(order[i])
		assert.Less(t, TractorRank(lo, trump), TractorRank(hi, trump), "%s < %s", lo, hi)
	}

	assert.Equal(t, TractorRank(card("2S"), trump), TractorRank(card("2C"), trump),
		"off-suit trump rank cards share a tier")
}

func TestBridgedRank(t *testing.T) {
	tests := []struct {
		name      string
		trumpRank Rank
		lo, hi    string
		adjacent  bool
	}{
		{name: "gap closed around seven", trumpRank: Seven, lo: "6S", hi: "8S", adjacent: true},
		{name: "normal neighbours", trumpRank: Seven, lo: "9S", hi: "10S", adjacent: true},
		{name: "below the trump rank", trumpRank: Seven, lo: "3S", hi: "4S", adjacent: true},
		{name: "skip without gap", trumpRank: Two, lo: "6S", hi: "8S", adjacent: false},
		{name: "different suits", trumpRank: Two, lo: "6S", hi: "7H", adjacent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trump := TrumpInfo{TrumpRank: tt.trumpRank, TrumpSuit: Diamonds}
			diff := TractorRank(card(tt.hi), trump) - TractorRank(card(tt.lo), trump)
			assert.Equal(t, tt.adjacent, diff == 1)
		})
	}
}

func TestNonTrumpRanksStayBelowTrump(t *testing.T) {
	for _, tr := range []Rank{Two, Seven, Ace} {
		trump := TrumpInfo{TrumpRank: tr, TrumpSuit: Spades}
		lowestTrump, highestPlain := 1<<30, 0
		for _, c := range NewDoubleDeck() {
			r := TractorRank(c, trump)
			if trump.IsTrump(c) {
				lowestTrump = min(lowestTrump, r)
			} else {
				highestPlain = max(highestPlain, r)
			}
		}
		assert.Less(t, highestPlain, lowestTrump, "trump rank %s", tr)
	}
}

func TestEffectiveSuit(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Five, TrumpSuit: Clubs}

	assert.Equal(t, SuitNone, trump.EffectiveSuit(card("5H")))
	assert.Equal(t, SuitNone, trump.EffectiveSuit(card("KC")))
	assert.Equal(t, SuitNone, trump.EffectiveSuit(card("SJ")))
	assert.Equal(t, Hearts, trump.EffectiveSuit(card("KH")))

	noSuit := TrumpInfo{TrumpRank: Five}
	assert.Equal(t, Clubs, noSuit.EffectiveSuit(card("KC")))
	assert.True(t, noSuit.IsTrump(card("5C")))
}

func TestTractorContextOf(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Hearts}

	assert.Equal(t, TractorContext{Kind: ContextJoker}, TractorContextOf(card("SJ"), trump))
	assert.Equal(t, TractorContextOf(card("BJ"), trump), TractorContextOf(card("SJ"), trump))
	assert.Equal(t, TractorContextOf(card("2S"), trump), TractorContextOf(card("2H"), trump))
	assert.Equal(t, TractorContext{Kind: ContextSuit, Suit: Hearts}, TractorContextOf(card("AH"), trump))
	assert.NotEqual(t, TractorContextOf(card("AH"), trump), TractorContextOf(card("2H"), trump))
}

func TestCardPointsAndParsing(t *testing.T) {
	cards, err := ParseCards("5S 10H KD AS SJ 10H")
	assert.NoError(t, err)
	assert.Equal(t, 35, TotalPoints(cards))
	assert.Equal(t, 0, cards[0].Deck)
	assert.Equal(t, 1, cards[5].Deck, "second copy gets deck tag 1")
	assert.Equal(t, "5S 10H KD AS SJ 10H", FormatCards(cards))

	_, err = ParseCards("1X")
	assert.Error(t, err)
}
