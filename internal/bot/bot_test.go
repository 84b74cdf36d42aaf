package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tractor/internal/bot/brain"
	"tractor/internal/domain"
)

var heartsTwo = domain.TrumpInfo{TrumpRank: domain.Two, TrumpSuit: domain.Hearts}

// newTestGame seats p0..p3 with the given hands. Team B attacks and p0 is
// to lead unless the caller moves CurrentSeat.
func newTestGame(trump domain.TrumpInfo, hands ...string) *domain.Game {
	g := &domain.Game{
		ID:            "test",
		Phase:         domain.PhasePlaying,
		AttackingTeam: domain.TeamB,
		TrumpInfo:     trump,
		Declarations:  domain.NewDeclarationState(trump.TrumpRank),
	}
	for seat := 0; seat < domain.NumSeats; seat++ {
		p := &domain.Player{
			UserID: []string{"p0", "p1", "p2", "p3"}[seat],
			Seat:   seat,
			Team:   domain.TeamForSeat(seat),
			IsBot:  true,
		}
		if seat < len(hands) && hands[seat] != "" {
			p.Hand = domain.MustParseCards(hands[seat])
		}
		g.Players[seat] = p
	}
	return g
}

// playTo opens a trick led by seat 0 with the given plays and hands the turn
// to the next seat.
func playTo(t *testing.T, g *domain.Game, plays ...string) {
	t.Helper()
	g.CurrentTrick = domain.NewTrick("p0")
	for i, codes := range plays {
		_, err := g.CurrentTrick.AddPlay(g.Players[i].UserID, domain.MustParseCards(codes), g.TrumpInfo)
		require.NoError(t, err)
	}
	g.CurrentSeat = len(plays)
}

// singleTricks returns n closed tricks of one card per seat.
func singleTricks(n int) []domain.Trick {
	tricks := make([]domain.Trick, n)
	for i := range tricks {
		for seat := 0; seat < domain.NumSeats; seat++ {
			tricks[i].Plays = append(tricks[i].Plays, domain.Play{Cards: make([]domain.Card, 1)})
		}
	}
	return tricks
}

func emptyMemory() brain.CardMemory { return brain.NewMemory(heartsTwo) }
