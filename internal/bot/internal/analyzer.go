package internal

import (
	"tractor/internal/bot/brain"
	"tractor/internal/domain"
)

// BossStats provides insights into the hand relative to the cards seen.
type BossStats struct {
	BossSingles []domain.Card
	// BossCombos are leadable plain pairs and tractors nobody can top.
	BossCombos []domain.Combination
	// Dominance is the share of outstanding trump held by this hand.
	Dominance float64
}

// AnalyzeHand identifies boss cards and trump control using memory.
func AnalyzeHand(hand []domain.Card, memory brain.CardMemory) BossStats {
	trump := memory.Trump
	stats := BossStats{BossSingles: brain.BossCards(memory, hand)}

	for _, c := range domain.IdentifyCombinations(hand, trump) {
		if c.Type == domain.Single || c.Trump {
			continue
		}
		if brain.IsTopRemaining(memory, c, hand) {
			stats.BossCombos = append(stats.BossCombos, c)
		}
	}

	mine, hidden := 0, 0
	for _, c := range hand {
		if trump.IsTrump(c) {
			mine++
		}
	}
	for _, n := range unseenTrump(memory, hand) {
		hidden += n
	}
	if mine+hidden > 0 {
		stats.Dominance = float64(mine) / float64(mine+hidden)
	}
	return stats
}

func unseenTrump(memory brain.CardMemory, hand []domain.Card) map[domain.Face]int {
	out := make(map[domain.Face]int)
	for _, c := range domain.NewDoubleDeck() {
		if c.Deck != 0 || !memory.Trump.IsTrump(c) {
			continue
		}
		if n := memory.Outstanding(c.Face(), hand); n > 0 {
			out[c.Face()] = n
		}
	}
	return out
}
