package brain

import (
	"tractor/internal/domain"
)

// allFaces lists the 54 distinct faces of the deck.
var allFaces = func() []domain.Face {
	deck := domain.NewDoubleDeck()
	seen := make(map[domain.Face]bool, len(deck)/2)
	out := make([]domain.Face, 0, len(deck)/2)
	for _, c := range deck {
		if !seen[c.Face()] {
			seen[c.Face()] = true
			out = append(out, c.Face())
		}
	}
	return out
}()

// IsBiggestRemainingInSuit reports whether a card of rank in the natural suit
// can no longer be topped by another card of that suit. The trump rank is
// skipped since it no longer belongs to its natural suit.
//
// For singles every higher rank must have both copies played. For pairs one
// played copy per higher rank suffices, but a pair with no higher ranks at
// all is reported as not guaranteed.
func IsBiggestRemainingInSuit(m CardMemory, suit domain.Suit, rank domain.Rank, kind domain.ComboType) bool {
	higher := 0
	for r := rank + 1; r <= domain.Ace; r++ {
		if r == m.Trump.TrumpRank {
			continue
		}
		higher++
		played := m.Played[domain.Face{Suit: suit, Rank: r}]
		if kind == domain.Single && played < domain.DeckCopies {
			return false
		}
		if kind != domain.Single && played < 1 {
			return false
		}
	}
	// TODO: confirm whether a top-rank pair should count as guaranteed; the
	// single form says yes and this one says no.
	if kind != domain.Single && higher == 0 {
		return false
	}
	return true
}

// IsTopRemaining reports whether no card hidden from the viewer could form a
// stronger combination of the same group: a higher trump for trump plays, or
// a higher card of the suit for plain plays.
func IsTopRemaining(m CardMemory, combo domain.Combination, hand []domain.Card) bool {
	if combo.Type == domain.Invalid || combo.Type == domain.Mixed {
		return false
	}
	need := 1
	if combo.Type != domain.Single {
		need = 2
	}
	for _, f := range allFaces {
		c := domain.Card{Suit: f.Suit, Rank: f.Rank}
		if domain.TractorRank(c, m.Trump) <= combo.Value {
			continue
		}
		if combo.Trump != m.Trump.IsTrump(c) {
			continue
		}
		if !combo.Trump && c.Suit != combo.Suit {
			continue
		}
		if m.Outstanding(f, hand) >= need {
			return false
		}
	}
	return true
}

// IsGuaranteedWinner reports whether combo, already winning the trick, will
// hold against the opponents still to act. Plain combinations are also
// exposed to any opponent known to be void in the suit but not in trump.
func IsGuaranteedWinner(m CardMemory, combo domain.Combination, hand []domain.Card, opponentsToAct []string) bool {
	if combo.Type == domain.Invalid || combo.Type == domain.Mixed {
		return false
	}
	if len(opponentsToAct) == 0 {
		return true
	}
	if !IsTopRemaining(m, combo, hand) {
		return false
	}
	if combo.Trump {
		return true
	}
	for _, id := range opponentsToAct {
		if m.IsVoid(id, combo.Suit) && !m.IsVoid(id, domain.SuitNone) {
			return false
		}
	}
	return true
}

// BossCards returns the cards of hand that no hidden single can top.
func BossCards(m CardMemory, hand []domain.Card) []domain.Card {
	var out []domain.Card
	for _, c := range hand {
		if IsTopRemaining(m, domain.ClassifyPlay([]domain.Card{c}, m.Trump), hand) {
			out = append(out, c)
		}
	}
	return out
}

// EstimateSuitDistribution spreads the unseen cards of each effective suit
// evenly over the other players not known to be void in it.
func EstimateSuitDistribution(m CardMemory, hand []domain.Card, viewerID string, players []string) map[string]map[domain.Suit]float64 {
	unseen := make(map[domain.Suit]int)
	for _, f := range allFaces {
		c := domain.Card{Suit: f.Suit, Rank: f.Rank}
		unseen[m.Trump.EffectiveSuit(c)] += m.Outstanding(f, hand)
	}

	out := make(map[string]map[domain.Suit]float64, len(players))
	for _, id := range players {
		if id != viewerID {
			out[id] = make(map[domain.Suit]float64, len(unseen))
		}
	}
	for suit, n := range unseen {
		var holders []string
		for id := range out {
			if !m.IsVoid(id, suit) {
				holders = append(holders, id)
			}
		}
		for _, id := range holders {
			out[id][suit] = float64(n) / float64(len(holders))
		}
	}
	return out
}
