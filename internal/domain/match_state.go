package domain

// RoundResult is the final score of a round.
type RoundResult struct {
	AttackingTeam   Team
	WinningTeam     Team
	AttackingPoints int
	KittyPoints     int
	AttackersWon    bool
}

// Game is the authoritative state of one round at a table.
type Game struct {
	ID    string
	Phase Phase

	Players    [NumSeats]*Player
	DealerSeat int

	AttackingTeam Team
	TrumpInfo     TrumpInfo
	Declarations  *DeclarationState

	CurrentTrick *Trick // nil when the current seat is about to lead
	Tricks       []Trick
	CurrentSeat  int

	Kitty           []Card
	AttackingPoints int
	Result          *RoundResult
}

// PlayerByID finds a seated player.
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p != nil && p.UserID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player { return g.Players[g.CurrentSeat] }

// TeamOf returns the team of playerID. Unknown players report TeamA.
func (g *Game) TeamOf(playerID string) Team {
	if p := g.PlayerByID(playerID); p != nil {
		return p.Team
	}
	return TeamA
}

// IsAttacker reports whether playerID sits on the attacking team.
func (g *Game) IsAttacker(playerID string) bool {
	return g.PlayerByID(playerID) != nil && g.TeamOf(playerID) == g.AttackingTeam
}

// SameTeam reports whether two players are partners.
func (g *Game) SameTeam(a, b string) bool { return g.TeamOf(a) == g.TeamOf(b) }

// PartnerOf returns the user ID of the partner of playerID.
func (g *Game) PartnerOf(playerID string) string {
	p := g.PlayerByID(playerID)
	if p == nil {
		return ""
	}
	if partner := g.Players[PartnerSeat(p.Seat)]; partner != nil {
		return partner.UserID
	}
	return ""
}

// TrickPosition is the number of plays already made to the current trick.
func (g *Game) TrickPosition() int {
	if g.CurrentTrick == nil {
		return 0
	}
	return len(g.CurrentTrick.Plays)
}

// SeatsToAct returns the players still due to play to the current trick
// after the current seat, in order.
func (g *Game) SeatsToAct() []*Player {
	remaining := NumSeats - g.TrickPosition() - 1
	out := make([]*Player, 0, remaining)
	seat := g.CurrentSeat
	for i := 0; i < remaining; i++ {
		seat = NextSeat(seat)
		out = append(out, g.Players[seat])
	}
	return out
}

// CardsPlayedPerSeat counts the cards each seat has given up to closed
// tricks. Tricks are as wide as their lead, so this is not len(Tricks).
func CardsPlayedPerSeat(tricks []Trick) int {
	n := 0
	for i := range tricks {
		if len(tricks[i].Plays) > 0 {
			n += len(tricks[i].Plays[0].Cards)
		}
	}
	return n
}

// Progress is the fraction of each hand already played to closed tricks,
// in [0,1].
func (g *Game) Progress() float64 {
	return float64(CardsPlayedPerSeat(g.Tricks)) / float64(HandSize)
}
