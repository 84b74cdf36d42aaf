package internal

import (
	"slices"

	"tractor/internal/domain"
)

// ExtractTractors greedily removes the longest available tractors from pool
// and returns them with the cards left over.
func ExtractTractors(pool []domain.Card, trump domain.TrumpInfo) ([]domain.Combination, []domain.Card) {
	var tractors []domain.Combination
	for {
		best, ok := longestTractor(pool, trump)
		if !ok {
			return tractors, pool
		}
		tractors = append(tractors, best)
		pool = domain.RemoveCards(pool, best.Cards)
	}
}

func longestTractor(pool []domain.Card, trump domain.TrumpInfo) (domain.Combination, bool) {
	var best domain.Combination
	found := false
	for _, c := range domain.IdentifyCombinations(pool, trump) {
		if c.Type != domain.Tractor {
			continue
		}
		if !found || c.Pairs > best.Pairs || (c.Pairs == best.Pairs && c.Value > best.Value) {
			best, found = c, true
		}
	}
	return best, found
}

// ExtractPairs removes every pair from pool.
func ExtractPairs(pool []domain.Card, trump domain.TrumpInfo) ([]domain.Combination, []domain.Card) {
	var pairs []domain.Combination
	for _, c := range domain.IdentifyCombinations(pool, trump) {
		if c.Type == domain.Pair {
			pairs = append(pairs, c)
		}
	}
	rest := slices.Clone(pool)
	for _, p := range pairs {
		rest = domain.RemoveCards(rest, p.Cards)
	}
	return pairs, rest
}
