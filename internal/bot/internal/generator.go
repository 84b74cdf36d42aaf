package internal

import (
	"tractor/internal/domain"
)

// ValidMove represents a possible legal play.
type ValidMove struct {
	Cards []domain.Card
}

// GetValidMoves returns the legal plays for hand. A nil lead means the
// player is leading and may open with any single, pair or tractor.
func GetValidMoves(hand []domain.Card, lead *domain.Combination, trump domain.TrumpInfo) []ValidMove {
	if lead == nil {
		combos := domain.IdentifyCombinations(hand, trump)
		moves := make([]ValidMove, 0, len(combos))
		seen := make(map[string]bool, len(combos))
		for _, c := range combos {
			key := domain.FormatCards(c.Cards)
			if seen[key] {
				continue
			}
			seen[key] = true
			moves = append(moves, ValidMove{Cards: c.Cards})
		}
		return moves
	}

	plays := domain.LegalPlays(*lead, hand, trump)
	moves := make([]ValidMove, 0, len(plays))
	for _, p := range plays {
		moves = append(moves, ValidMove{Cards: p})
	}
	return moves
}
