package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowestAvailableSeat(t *testing.T) {
	tests := []struct {
		name  string
		seats [NumSeats]string
		want  int
	}{
		{name: "all empty", seats: [NumSeats]string{"", "", "", ""}, want: 0},
		{name: "first taken", seats: [NumSeats]string{"u1", "", "", ""}, want: 1},
		{name: "gap in the middle", seats: [NumSeats]string{"u1", "", "u3", ""}, want: 1},
		{name: "full", seats: [NumSeats]string{"u1", "u2", "u3", "u4"}, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LowestAvailableSeat(&tt.seats))
		})
	}
}

func TestComputeLabel(t *testing.T) {
	seats := [NumSeats]string{"a", "b", "", ""}
	label := ComputeLabel(&seats, PhaseLobby)
	assert.True(t, label.Open)
	assert.Equal(t, "tractor", label.Game)
	assert.Equal(t, string(PhaseLobby), label.Phase)
	assert.Equal(t, 2, label.Seats)

	seats[2], seats[3] = "c", "d"
	assert.False(t, ComputeLabel(&seats, PhaseLobby).Open, "full lobby")

	seats[3] = ""
	assert.False(t, ComputeLabel(&seats, PhasePlaying).Open, "round in progress")

	_, err := json.Marshal(label)
	require.NoError(t, err)
}

func newTestGame() *Game {
	g := &Game{Phase: PhasePlaying, AttackingTeam: TeamB}
	for seat, id := range []string{"p0", "p1", "p2", "p3"} {
		g.Players[seat] = &Player{UserID: id, Seat: seat, Team: TeamForSeat(seat)}
	}
	return g
}

func TestGameTeams(t *testing.T) {
	g := newTestGame()

	assert.Equal(t, "p2", g.PartnerOf("p0"))
	assert.Equal(t, "p1", g.PartnerOf("p3"))
	assert.Empty(t, g.PartnerOf("nobody"))

	assert.True(t, g.SameTeam("p0", "p2"))
	assert.False(t, g.SameTeam("p0", "p1"))

	assert.True(t, g.IsAttacker("p1"))
	assert.True(t, g.IsAttacker("p3"))
	assert.False(t, g.IsAttacker("p0"))
	assert.False(t, g.IsAttacker("nobody"))
}

func TestSeatsToAct(t *testing.T) {
	g := newTestGame()
	g.CurrentSeat = 3

	ids := func(ps []*Player) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.UserID)
		}
		return out
	}

	assert.Equal(t, []string{"p0", "p1", "p2"}, ids(g.SeatsToAct()), "leader")

	g.CurrentTrick = &Trick{LeaderID: "p1", Plays: []Play{{PlayerID: "p1"}, {PlayerID: "p2"}}}
	assert.Equal(t, 2, g.TrickPosition())
	assert.Equal(t, []string{"p0"}, ids(g.SeatsToAct()))

	g.CurrentTrick.Plays = append(g.CurrentTrick.Plays, Play{PlayerID: "p3"})
	g.CurrentSeat = 0
	assert.Empty(t, g.SeatsToAct(), "last to act")
}

func TestProgress(t *testing.T) {
	g := newTestGame()
	assert.Zero(t, g.Progress())

	pair := Trick{Plays: []Play{{Cards: MustParseCards("9S 9S")}, {Cards: MustParseCards("3S 4S")}}}
	single := Trick{Plays: []Play{{Cards: MustParseCards("AS")}}}
	g.Tricks = []Trick{pair, single, {}}
	assert.Equal(t, 3, CardsPlayedPerSeat(g.Tricks))
	assert.InDelta(t, 3.0/HandSize, g.Progress(), 1e-9)

	g.Tricks = nil
	for i := 0; i < HandSize/2; i++ {
		g.Tricks = append(g.Tricks, pair)
	}
	g.Tricks = append(g.Tricks, single)
	assert.InDelta(t, 1.0, g.Progress(), 1e-9)
}
