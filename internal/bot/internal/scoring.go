package internal

import "tractor/internal/domain"

// Conservation tiers, strongest last.
const (
	conserveTrumpSuit     = 100
	conserveOffSuitRank   = 200
	conserveTrumpSuitRank = 300
	conserveSmallJoker    = 400
	conserveBigJoker      = 410
)

// ConservationValue orders cards by how much a bot prefers to keep them:
// jokers, then the trump rank in the trump suit, then the trump rank in other
// suits, then trump-suit cards by rank, then plain cards by rank.
func ConservationValue(c domain.Card, trump domain.TrumpInfo) int {
	switch {
	case c.Rank == domain.BigJoker:
		return conserveBigJoker
	case c.Rank == domain.SmallJoker:
		return conserveSmallJoker
	case c.Rank == trump.TrumpRank && trump.TrumpSuit != domain.SuitNone && c.Suit == trump.TrumpSuit:
		return conserveTrumpSuitRank
	case c.Rank == trump.TrumpRank:
		return conserveOffSuitRank
	case trump.IsTrump(c):
		return conserveTrumpSuit + int(c.Rank)
	}
	return int(c.Rank)
}

// CardsConservation sums ConservationValue over cards.
func CardsConservation(cards []domain.Card, trump domain.TrumpInfo) int {
	total := 0
	for _, c := range cards {
		total += ConservationValue(c, trump)
	}
	return total
}

// PhaseWeights tune decisions for a specific phase of the round.
type PhaseWeights struct {
	// TakeTrickMinPoints is the trick value above which an undecided seat
	// spends a guaranteed winner.
	TakeTrickMinPoints int
	// ProbeMaxSuitLength is the longest plain suit still worth probing to
	// create a void.
	ProbeMaxSuitLength int
	// CashBossCombos lets a leader cash guaranteed plain combinations.
	CashBossCombos bool
}

// BotTuning defines phase weights and thresholds for a bot difficulty.
type BotTuning struct {
	Opening PhaseWeights
	Mid     PhaseWeights
	End     PhaseWeights

	// DesperateDeficit is the point shortfall that, late enough in the
	// round, switches an attacking bot to desperate play.
	DesperateDeficit int
	// DesperateProgress is the share of each hand played after which
	// desperate play may start.
	DesperateProgress float64
	// UseMemory enables card counting and history analysis.
	UseMemory bool
}

// ForPhase returns the weights that match the supplied phase.
func (t BotTuning) ForPhase(phase GamePhase) PhaseWeights {
	switch phase {
	case PhaseOpening:
		return t.Opening
	case PhaseEnd:
		return t.End
	default:
		return t.Mid
	}
}
