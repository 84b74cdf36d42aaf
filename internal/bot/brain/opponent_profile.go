package brain

// PlayerProfile tracks the behavioural history of one player in a round.
type PlayerProfile struct {
	PlayerID string

	Leads      int
	TrumpLeads int
	PointLeads int
	// ForcedTrumpLeads counts leads that drew trump out of the table: trump
	// leads, and plain leads that somebody ruffed.
	ForcedTrumpLeads int

	CardsPlayed       int
	PointsContributed int
	FollowFailures    int

	TricksWon int
	PointsWon int
}

// LeadTrumpFrequency is the share of this player's leads that were trump.
func (p PlayerProfile) LeadTrumpFrequency() float64 { return ratio(p.TrumpLeads, p.Leads) }

// LeadPointFrequency is the share of leads that carried points.
func (p PlayerProfile) LeadPointFrequency() float64 { return ratio(p.PointLeads, p.Leads) }

// Aggressiveness is the share of leads that forced trump usage.
func (p PlayerProfile) Aggressiveness() float64 { return ratio(p.ForcedTrumpLeads, p.Leads) }

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
