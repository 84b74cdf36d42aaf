package internal

import (
	"tractor/internal/domain"
)

// OrganizedHand represents a tactical partitioning of a player's hand.
type OrganizedHand struct {
	Tractors []domain.Combination
	Pairs    []domain.Combination
	Singles  []domain.Card // cards not part of any structure
}

// OrganizeHand partitions a hand into tractors first, then pairs, then
// singles.
func OrganizeHand(hand []domain.Card, trump domain.TrumpInfo) OrganizedHand {
	organized := OrganizedHand{}
	if len(hand) == 0 {
		return organized
	}
	pool := make([]domain.Card, len(hand))
	copy(pool, hand)
	domain.SortByTractorRank(pool, trump)

	organized.Tractors, pool = ExtractTractors(pool, trump)
	organized.Pairs, pool = ExtractPairs(pool, trump)
	organized.Singles = pool
	return organized
}

// StructureBreaks counts the pairs and tractors of the organized hand that
// play would split, leaving part of the structure behind.
func StructureBreaks(organized OrganizedHand, play []domain.Card) int {
	breaks := 0
	for _, group := range [][]domain.Combination{organized.Tractors, organized.Pairs} {
		for _, s := range group {
			used := overlap(s.Cards, play)
			if used > 0 && used < len(s.Cards) {
				breaks++
			}
		}
	}
	return breaks
}

// overlap counts how many cards of structure appear in play, by face.
func overlap(structure, play []domain.Card) int {
	avail := make(map[domain.Face]int, len(play))
	for _, c := range play {
		avail[c.Face()]++
	}
	n := 0
	for _, c := range structure {
		if avail[c.Face()] > 0 {
			avail[c.Face()]--
			n++
		}
	}
	return n
}
