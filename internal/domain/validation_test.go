package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeAvailability(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Hearts}

	tests := []struct {
		name      string
		lead      string
		hand      string
		scenario  Scenario
		suit      Suit
		available int
		combos    int
	}{
		{name: "void", lead: "KS", hand: "3C 4D", scenario: ScenarioVoid, suit: Spades},
		{name: "single lead with one suit card", lead: "KS", hand: "3S 4D", scenario: ScenarioValidCombos, suit: Spades, available: 1, combos: 1},
		{name: "insufficient for a pair", lead: "KS KS", hand: "3S 4D 5D", scenario: ScenarioInsufficient, suit: Spades, available: 1},
		{name: "pair available", lead: "KS KS", hand: "3S 3S 4S", scenario: ScenarioValidCombos, suit: Spades, available: 3, combos: 1},
		{name: "no pair in suit", lead: "KS KS", hand: "3S 4S 5S", scenario: ScenarioEnoughRemaining, suit: Spades, available: 3},
		{name: "tractor satisfies a pair requirement only at equal length", lead: "QS QS KS KS", hand: "3S 3S 4S 4S", scenario: ScenarioValidCombos, suit: Spades, available: 4, combos: 1},
		{name: "pairs without a tractor", lead: "QS QS KS KS", hand: "3S 3S 5S 5S", scenario: ScenarioEnoughRemaining, suit: Spades, available: 4},
		{name: "trump lead pools every trump", lead: "SJ", hand: "2C 3H AS", scenario: ScenarioValidCombos, suit: SuitNone, available: 2, combos: 2},
		{name: "trump rank does not follow its natural suit", lead: "AC", hand: "2C 3D", scenario: ScenarioVoid, suit: Clubs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := ClassifyPlay(MustParseCards(tt.lead), trump)
			av := AnalyzeAvailability(lead, MustParseCards(tt.hand), trump)
			assert.Equal(t, tt.scenario, av.Scenario)
			assert.Equal(t, tt.suit, av.LeadingSuit)
			assert.Equal(t, tt.available, av.AvailableCount)
			assert.Equal(t, len(lead.Cards), av.RequiredLength)
			assert.Len(t, av.ValidCombos, tt.combos)
		})
	}
}

func TestValidatePlay(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Hearts}

	tests := []struct {
		name     string
		lead     string
		hand     string
		play     string
		expected error
	}{
		{name: "wrong length", lead: "KS KS", hand: "3S 3S 4S", play: "3S", expected: ErrWrongLength},
		{name: "not in hand", lead: "KS", hand: "3S", play: "4S", expected: ErrNotInHand},
		{name: "pair follows pair", lead: "KS KS", hand: "3S 3S 4S 9C", play: "3S 3S"},
		{name: "singles when a pair exists", lead: "KS KS", hand: "3S 3S 4S 9C", play: "3S 4S", expected: ErrMustMatchType},
		{name: "off-suit with a pair available", lead: "KS KS", hand: "3S 3S 4S 9C", play: "3S 9C", expected: ErrMustFollowSuit},
		{name: "any suit cards without a pair", lead: "KS KS", hand: "3S 4S 5S 9C", play: "3S 5S"},
		{name: "mixing while suit cards remain", lead: "KS KS", hand: "3S 4S 5S 9C", play: "3S 9C", expected: ErrMustFollowSuit},
		{name: "exhaust the suit", lead: "KS KS", hand: "3S 9C 10D", play: "3S 10D"},
		{name: "withholding the last suit card", lead: "KS KS", hand: "3S 9C 10D", play: "9C 10D", expected: ErrMustExhaustSuit},
		{name: "void plays anything", lead: "KS KS", hand: "3C 9C 10D", play: "9C 10D"},
		{name: "void may ruff", lead: "KS", hand: "3H 9C", play: "3H"},
		{name: "tractor required", lead: "QS QS KS KS", hand: "3S 3S 4S 4S 9S", play: "3S 3S 9S 4S", expected: ErrMustMatchType},
		{name: "tractor follows tractor", lead: "QS QS KS KS", hand: "3S 3S 4S 4S 9S", play: "3S 3S 4S 4S"},
		{name: "pairs when no tractor", lead: "QS QS KS KS", hand: "3S 3S 5S 5S 9H 9H", play: "3S 3S 5S 5S"},
		{name: "trump lead must be followed with trump", lead: "SJ", hand: "2C AS", play: "AS", expected: ErrMustFollowSuit},
		{name: "trump rank follows a trump lead", lead: "SJ", hand: "2C AS", play: "2C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := ClassifyPlay(MustParseCards(tt.lead), trump)
			err := ValidatePlay(MustParseCards(tt.play), lead, MustParseCards(tt.hand), trump)
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			assert.Equal(t, tt.expected.(*ValidationError).Code, CodeOf(err))
		})
	}
}

func TestLoneTrumpAgainstTrumpPair(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Diamonds}
	lead := ClassifyPlay(MustParseCards("10D 10D"), trump)
	hand := MustParseCards("9D 3S 4S 5S 6S 7S 8S 9S 10S JS QS 3H 4H 5H 6H 7H 3C 4C 5C 6C 7C")

	av := AnalyzeAvailability(lead, hand, trump)
	require.Equal(t, ScenarioInsufficient, av.Scenario)
	assert.Equal(t, 1, av.AvailableCount)

	assert.True(t, IsValidPlay(MustParseCards("9D 3S"), lead, hand, trump))
	assert.False(t, IsValidPlay(MustParseCards("3S 4S"), lead, hand, trump))

	plays := LegalPlays(lead, hand, trump)
	require.NotEmpty(t, plays)
	for _, p := range plays {
		assert.Contains(t, FormatCards(p), "9D")
		assert.NoError(t, ValidatePlay(p, lead, hand, trump))
	}
}

func TestValidateLead(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Hearts}
	hand := MustParseCards("3S 3S 4S 4S 9C KD")

	assert.NoError(t, ValidateLead(MustParseCards("3S 3S 4S 4S"), hand, trump))
	assert.NoError(t, ValidateLead(MustParseCards("KD"), hand, trump))
	assert.ErrorIs(t, ValidateLead(MustParseCards("9C KD"), hand, trump), ErrInvalidCombination)
	assert.ErrorIs(t, ValidateLead(MustParseCards("AS"), hand, trump), ErrNotInHand)
	assert.ErrorIs(t, ValidateLead(nil, hand, trump), ErrWrongLength)
}

// Every lead formed from one dealt hand must leave every other dealt hand
// at least one legal follow.
func TestLegalityTotality(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		trump := TrumpInfo{TrumpRank: Rank(2 + rng.Intn(13)), TrumpSuit: StandardSuits[rng.Intn(4)]}
		hands, _ := Deal(ShuffleDeck(NewDoubleDeck(), rng))

		leads := IdentifyCombinations(hands[0], trump)
		for _, lead := range leads {
			for seat := 1; seat < NumSeats; seat++ {
				av := AnalyzeAvailability(lead, hands[seat], trump)
				require.NotEmpty(t, av.Scenario)
				plays := LegalPlays(lead, hands[seat], trump)
				require.NotEmpty(t, plays, "lead %s hand %s", FormatCards(lead.Cards), FormatCards(hands[seat]))
				for _, p := range plays {
					require.NoError(t, ValidatePlay(p, lead, hands[seat], trump))
				}
			}
		}
	}
}
