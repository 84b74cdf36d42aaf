package internal

import (
	"tractor/internal/bot/brain"
	"tractor/internal/domain"
)

// Candidate is a legal move annotated with the features the decision
// stages rank on.
type Candidate struct {
	Cards        []domain.Card
	Combo        domain.Combination
	Points       int
	Conservation int
	Breaks       int
	TrumpUsed    int
	// Wins is set when the move would take the trick as it stands.
	Wins bool
	// Guaranteed is set when the move wins and no later seat can overturn it.
	Guaranteed bool
}

// EvalInput is the position a set of moves is evaluated in.
type EvalInput struct {
	Hand   []domain.Card
	Trump  domain.TrumpInfo
	Trick  *domain.Trick // nil or empty when leading
	Memory brain.CardMemory
	// OpponentsToAct lists opponents who play after this seat in the trick.
	OpponentsToAct []string
}

// EvaluateCandidates annotates every move.
func EvaluateCandidates(moves []ValidMove, in EvalInput) []Candidate {
	organized := OrganizeHand(in.Hand, in.Trump)
	leading := in.Trick == nil || len(in.Trick.Plays) == 0

	var lead, winning domain.Combination
	if !leading {
		lead = in.Trick.Lead()
		winning = in.Trick.Winning().Combo
	}

	out := make([]Candidate, 0, len(moves))
	for _, m := range moves {
		combo := domain.ClassifyPlay(m.Cards, in.Trump)
		c := Candidate{
			Cards:        combo.Cards,
			Combo:        combo,
			Points:       combo.Points(),
			Conservation: CardsConservation(m.Cards, in.Trump),
			Breaks:       StructureBreaks(organized, m.Cards),
		}
		for _, card := range m.Cards {
			if in.Trump.IsTrump(card) {
				c.TrumpUsed++
			}
		}
		if leading {
			c.Wins = true
		} else {
			c.Wins = domain.Beats(combo, winning, lead, in.Trump)
		}
		if c.Wins {
			c.Guaranteed = brain.IsGuaranteedWinner(in.Memory, combo, in.Hand, in.OpponentsToAct)
		}
		out = append(out, c)
	}
	return out
}
