package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrickTracksRunningWinner(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Hearts}
	trick := NewTrick("p0")

	plays := []struct {
		player string
		cards  string
		took   bool
		winner string
		points int
	}{
		{player: "p0", cards: "9S", took: true, winner: "p0"},
		{player: "p1", cards: "KS", took: true, winner: "p1", points: 10},
		{player: "p2", cards: "10S", took: false, winner: "p1", points: 20},
		{player: "p3", cards: "3H", took: true, winner: "p3", points: 20},
	}

	for i, p := range plays {
		play, err := trick.AddPlay(p.player, MustParseCards(p.cards), trump)
		require.NoError(t, err)
		assert.Equal(t, p.took, play.TookLead, "play %d", i)
		assert.Equal(t, p.winner, trick.WinnerID, "play %d", i)
		assert.Equal(t, p.points, trick.Points, "play %d", i)
	}

	assert.True(t, trick.Complete())
	assert.Equal(t, 1, trick.WinnerAfter(2))
	assert.Equal(t, 3, trick.WinnerAfter(3))

	_, err := trick.AddPlay("p0", MustParseCards("3S"), trump)
	assert.ErrorIs(t, err, ErrTrickComplete)
}

func TestTrickSnapshotIsIndependent(t *testing.T) {
	trump := TrumpInfo{TrumpRank: Two, TrumpSuit: Hearts}
	trick := NewTrick("p0")
	_, err := trick.AddPlay("p0", MustParseCards("9S"), trump)
	require.NoError(t, err)

	snap := trick.Snapshot()
	trick.Plays[0].Cards[0] = card("AS")

	assert.Equal(t, "9S", FormatCards(snap.Plays[0].Cards))
}
