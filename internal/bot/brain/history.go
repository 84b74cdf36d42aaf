package brain

import (
	"tractor/internal/domain"
)

// LeadPattern summarises how one player has chosen to lead.
type LeadPattern struct {
	Leads      int
	TrumpLeads int
	PointLeads int
	SuitLeads  map[domain.Suit]int
}

// CoordinationSignal measures how a team supports a winning partner.
type CoordinationSignal struct {
	// FeedOpportunities counts plays made while the partner was winning.
	FeedOpportunities int
	// PointFeeds counts those plays that carried points.
	PointFeeds int
	// Overtakes counts those plays that took the trick from the partner.
	Overtakes int
}

// FeedRate is the share of opportunities where points were fed.
func (c CoordinationSignal) FeedRate() float64 { return ratio(c.PointFeeds, c.FeedOpportunities) }

// Trend describes the attackers' recent scoring relative to earlier tricks.
type Trend int

const (
	TrendSteady Trend = iota
	TrendRising
	TrendFalling
)

// Stage is a coarse position within the round.
type Stage int

const (
	StageEarly Stage = iota
	StageMiddle
	StageLate
)

// Progression tracks how the round's scoring has developed.
type Progression struct {
	TricksPlayed          int
	CardsPerSeat          int
	AttackingPoints       int
	DefendingPoints       int
	RecentAttackingPoints int
	Trend                 Trend
	Stage                 Stage
}

// HistoryAnalysis is derived entirely from closed tricks and can be
// recomputed at any time.
type HistoryAnalysis struct {
	LeadPatterns map[string]LeadPattern
	Coordination map[domain.Team]CoordinationSignal
	Progression  Progression
}

const trendWindow = 4

// AnalyzeTrickHistory derives lead patterns, partner coordination and round
// progression from closed tricks. game supplies seating and trump.
func AnalyzeTrickHistory(tricks []domain.Trick, game *domain.Game) HistoryAnalysis {
	out := HistoryAnalysis{
		LeadPatterns: make(map[string]LeadPattern),
		Coordination: make(map[domain.Team]CoordinationSignal),
	}
	trump := game.TrumpInfo
	perTrick := make([]int, 0, len(tricks))

	for i := range tricks {
		t := &tricks[i]
		if len(t.Plays) == 0 {
			continue
		}

		lead := t.Plays[0]
		lp := out.LeadPatterns[lead.PlayerID]
		if lp.SuitLeads == nil {
			lp.SuitLeads = make(map[domain.Suit]int)
		}
		lp.Leads++
		if lead.Combo.Trump {
			lp.TrumpLeads++
		} else if len(lead.Cards) > 0 {
			lp.SuitLeads[trump.EffectiveSuit(lead.Cards[0])]++
		}
		if lead.Combo.Points() > 0 {
			lp.PointLeads++
		}
		out.LeadPatterns[lead.PlayerID] = lp

		for j := 1; j < len(t.Plays); j++ {
			play := t.Plays[j]
			winner := t.Plays[t.WinnerAfter(j-1)]
			if !game.SameTeam(play.PlayerID, winner.PlayerID) {
				continue
			}
			team := game.TeamOf(play.PlayerID)
			sig := out.Coordination[team]
			sig.FeedOpportunities++
			if play.Combo.Points() > 0 {
				sig.PointFeeds++
			}
			if play.TookLead {
				sig.Overtakes++
			}
			out.Coordination[team] = sig
		}

		attacking := 0
		if t.WinnerID != "" && game.TeamOf(t.WinnerID) == game.AttackingTeam {
			attacking = t.Points
			out.Progression.AttackingPoints += t.Points
		} else {
			out.Progression.DefendingPoints += t.Points
		}
		perTrick = append(perTrick, attacking)
	}

	p := &out.Progression
	p.TricksPlayed = len(perTrick)
	p.CardsPerSeat = domain.CardsPlayedPerSeat(tricks)
	recent, previous := windowSums(perTrick)
	p.RecentAttackingPoints = recent
	switch {
	case recent > previous+5:
		p.Trend = TrendRising
	case recent < previous-5:
		p.Trend = TrendFalling
	}
	switch {
	case p.CardsPerSeat*3 >= domain.HandSize*2:
		p.Stage = StageLate
	case p.CardsPerSeat*3 >= domain.HandSize:
		p.Stage = StageMiddle
	}
	return out
}

// windowSums returns the attacker points of the last trendWindow tricks and
// of the window before it.
func windowSums(perTrick []int) (recent, previous int) {
	n := len(perTrick)
	for i := n - 1; i >= 0 && i >= n-2*trendWindow; i-- {
		if i >= n-trendWindow {
			recent += perTrick[i]
		} else {
			previous += perTrick[i]
		}
	}
	return recent, previous
}
