package internal

import "tractor/internal/domain"

// HandProfile summarizes a hand's strategic structure.
type HandProfile struct {
	TotalCards     int
	TrumpCards     int
	Jokers         int
	TrumpRankCards int
	Points         int
	Pairs          int
	TrumpPairs     int
	Tractors       int
	TractorCards   int
	// SuitCounts counts cards by effective suit; SuitNone holds trump.
	SuitCounts map[domain.Suit]int
}

// ProfileHand analyzes a hand under trump using the organizer's greedy
// structure pass.
func ProfileHand(hand []domain.Card, trump domain.TrumpInfo) HandProfile {
	profile := HandProfile{
		TotalCards: len(hand),
		Points:     domain.TotalPoints(hand),
		SuitCounts: make(map[domain.Suit]int, 5),
	}
	for _, c := range hand {
		profile.SuitCounts[trump.EffectiveSuit(c)]++
		if trump.IsTrump(c) {
			profile.TrumpCards++
		}
		if c.IsJoker() {
			profile.Jokers++
		} else if c.Rank == trump.TrumpRank {
			profile.TrumpRankCards++
		}
	}

	organized := OrganizeHand(hand, trump)
	profile.Tractors = len(organized.Tractors)
	for _, t := range organized.Tractors {
		profile.TractorCards += len(t.Cards)
	}
	profile.Pairs = len(organized.Pairs)
	for _, p := range organized.Pairs {
		if p.Trump {
			profile.TrumpPairs++
		}
	}
	return profile
}

// ShortestPlainSuit returns the non-empty plain suit with the fewest cards,
// or SuitNone when the hand holds only trump.
func (p HandProfile) ShortestPlainSuit() domain.Suit {
	best, bestCount := domain.SuitNone, 0
	for _, s := range domain.StandardSuits {
		n := p.SuitCounts[s]
		if n > 0 && (best == domain.SuitNone || n < bestCount) {
			best, bestCount = s, n
		}
	}
	return best
}
