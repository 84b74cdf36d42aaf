package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tractor/internal/bot/brain"
	"tractor/internal/domain"
)

func TestGetValidMovesLeadingDedupesCopies(t *testing.T) {
	moves := GetValidMoves(domain.MustParseCards("3S 3S"), nil, heartsTwo)

	var formatted []string
	for _, m := range moves {
		formatted = append(formatted, domain.FormatCards(m.Cards))
	}
	assert.ElementsMatch(t, []string{"3S", "3S 3S"}, formatted)
}

func TestGetValidMovesFollowing(t *testing.T) {
	lead := domain.ClassifyPlay(domain.MustParseCards("KS"), heartsTwo)
	moves := GetValidMoves(domain.MustParseCards("AS 3S 9D"), &lead, heartsTwo)

	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, domain.Spades, m.Cards[0].Suit)
	}
}

func TestEvaluateCandidates(t *testing.T) {
	trick := domain.NewTrick("p0")
	_, err := trick.AddPlay("p0", domain.MustParseCards("KS"), heartsTwo)
	require.NoError(t, err)

	hand := domain.MustParseCards("AS 3S 3H")
	lead := trick.Lead()
	moves := GetValidMoves(hand, &lead, heartsTwo)
	cands := EvaluateCandidates(moves, EvalInput{
		Hand:           hand,
		Trump:          heartsTwo,
		Trick:          trick,
		Memory:         brain.NewMemory(heartsTwo),
		OpponentsToAct: []string{"p2"},
	})
	require.Len(t, cands, 2)

	byCard := make(map[string]Candidate)
	for _, c := range cands {
		byCard[domain.FormatCards(c.Cards)] = c
	}
	assert.True(t, byCard["AS"].Wins)
	assert.True(t, byCard["AS"].Guaranteed)
	assert.False(t, byCard["3S"].Wins)
	assert.Zero(t, byCard["3S"].TrumpUsed)
}

func TestAnalyzeHand(t *testing.T) {
	memory := brain.NewMemory(heartsTwo)
	stats := AnalyzeHand(domain.MustParseCards("AS AS KS BJ BJ"), memory)

	assert.Contains(t, domain.FormatCards(stats.BossSingles), "AS")
	require.NotEmpty(t, stats.BossCombos)
	assert.Equal(t, "AS AS", domain.FormatCards(stats.BossCombos[0].Cards))
	assert.Greater(t, stats.Dominance, 0.0)
	assert.Less(t, stats.Dominance, 1.0)
}
