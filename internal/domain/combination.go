package domain

import (
	"slices"
	"sort"
)

// ComboType represents the shape of a set of played cards.
type ComboType int

const (
	Invalid ComboType = iota
	Single
	Pair
	Tractor
	// Mixed is a legal play that forms no single shape, such as the filler
	// a player contributes when out of the led suit.
	Mixed
)

func (t ComboType) String() string {
	switch t {
	case Single:
		return "single"
	case Pair:
		return "pair"
	case Tractor:
		return "tractor"
	case Mixed:
		return "mixed"
	}
	return "invalid"
}

// Satisfies reports whether a play of shape t meets a requirement of shape
// required. A tractor also satisfies a pair requirement.
func (t ComboType) Satisfies(required ComboType) bool {
	switch required {
	case Single:
		return t == Single
	case Pair:
		return t == Pair || t == Tractor
	case Tractor:
		return t == Tractor
	}
	return false
}

// Combination is a classified group of cards.
type Combination struct {
	Type  ComboType
	Cards []Card // ascending by tractor rank
	Value int    // tractor rank of the strongest card
	Pairs int    // 1 for a pair, n for an n-pair tractor, 0 otherwise
	Suit  Suit   // shared effective suit; SuitNone for trump plays
	Trump bool   // every card is trump
}

// Len returns the number of cards in the combination.
func (c Combination) Len() int { return len(c.Cards) }

// Points sums the scoring value of the combination's cards.
func (c Combination) Points() int { return TotalPoints(c.Cards) }

// SameShape reports whether c has the type and size of other.
func (c Combination) SameShape(other Combination) bool {
	return c.Type == other.Type && len(c.Cards) == len(other.Cards) && c.Pairs == other.Pairs
}

// SortByTractorRank orders cards ascending by strength under trump.
func SortByTractorRank(cards []Card, trump TrumpInfo) {
	sort.SliceStable(cards, func(i, j int) bool { return trump.Compare(cards[i], cards[j]) < 0 })
}

func sortedCopy(cards []Card, trump TrumpInfo) []Card {
	out := slices.Clone(cards)
	SortByTractorRank(out, trump)
	return out
}

func newCombination(kind ComboType, cards []Card, pairs int, trump TrumpInfo) Combination {
	sorted := sortedCopy(cards, trump)
	combo := Combination{Type: kind, Cards: sorted, Pairs: pairs}
	if len(sorted) == 0 {
		return combo
	}
	combo.Value = TractorRank(sorted[len(sorted)-1], trump)
	combo.Suit = trump.EffectiveSuit(sorted[0])
	combo.Trump = true
	for _, c := range sorted {
		if !trump.IsTrump(c) {
			combo.Trump = false
		}
		if trump.EffectiveSuit(c) != combo.Suit {
			combo.Suit = SuitNone
		}
	}
	return combo
}

// ClassifyPlay determines the shape of an arbitrary set of cards. Cards that
// do not form a single, pair or tractor are reported as Mixed; an empty set
// is Invalid.
func ClassifyPlay(cards []Card, trump TrumpInfo) Combination {
	switch {
	case len(cards) == 0:
		return Combination{Type: Invalid}
	case len(cards) == 1:
		return newCombination(Single, cards, 0, trump)
	case len(cards) == 2 && SameFace(cards[0], cards[1]):
		return newCombination(Pair, cards, 1, trump)
	case len(cards) >= 4 && len(cards)%2 == 0 && isTractor(cards, trump):
		return newCombination(Tractor, cards, len(cards)/2, trump)
	}
	return newCombination(Mixed, cards, 0, trump)
}

func isTractor(cards []Card, trump TrumpInfo) bool {
	counts := make(map[Face]int, len(cards)/2)
	for _, c := range cards {
		counts[c.Face()]++
	}
	if len(counts) != len(cards)/2 {
		return false
	}
	ctx := TractorContextOf(cards[0], trump)
	ranks := make([]int, 0, len(counts))
	for f, n := range counts {
		card := Card{Suit: f.Suit, Rank: f.Rank}
		if n != 2 || TractorContextOf(card, trump) != ctx {
			return false
		}
		ranks = append(ranks, TractorRank(card, trump))
	}
	sort.Ints(ranks)
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}
	return true
}

// IdentifyCombinations enumerates every single, pair and tractor that can be
// formed from cards. Tractors are reported for every consecutive run of at
// least two pairs within one context, including sub-runs of longer runs.
func IdentifyCombinations(cards []Card, trump TrumpInfo) []Combination {
	sorted := sortedCopy(cards, trump)
	out := make([]Combination, 0, len(sorted)*2)
	for _, c := range sorted {
		out = append(out, newCombination(Single, []Card{c}, 0, trump))
	}

	pairs := findPairs(sorted)
	for _, p := range pairs {
		out = append(out, newCombination(Pair, p[:], 1, trump))
	}
	return append(out, findTractors(pairs, trump)...)
}

// findPairs returns one pair per face held at least twice. Input must be sorted.
func findPairs(sorted []Card) [][2]Card {
	var pairs [][2]Card
	for i := 0; i+1 < len(sorted); i++ {
		if SameFace(sorted[i], sorted[i+1]) {
			pairs = append(pairs, [2]Card{sorted[i], sorted[i+1]})
			i++
			for i+1 < len(sorted) && SameFace(sorted[i], sorted[i+1]) {
				i++
			}
		}
	}
	return pairs
}

func findTractors(pairs [][2]Card, trump TrumpInfo) []Combination {
	byContext := make(map[TractorContext]map[int][][2]Card)
	for _, p := range pairs {
		ctx := TractorContextOf(p[0], trump)
		if byContext[ctx] == nil {
			byContext[ctx] = make(map[int][][2]Card)
		}
		r := TractorRank(p[0], trump)
		byContext[ctx][r] = append(byContext[ctx][r], p)
	}

	contexts := make([]TractorContext, 0, len(byContext))
	for ctx := range byContext {
		contexts = append(contexts, ctx)
	}
	sort.Slice(contexts, func(i, j int) bool {
		if contexts[i].Kind != contexts[j].Kind {
			return contexts[i].Kind < contexts[j].Kind
		}
		return contexts[i].Suit < contexts[j].Suit
	})

	var out []Combination
	for _, ctx := range contexts {
		levels := byContext[ctx]
		ranks := make([]int, 0, len(levels))
		for r := range levels {
			ranks = append(ranks, r)
		}
		sort.Ints(ranks)
		for start := 0; start < len(ranks); start++ {
			for end := start + 1; end < len(ranks) && ranks[end] == ranks[end-1]+1; end++ {
				run := make([][][2]Card, 0, end-start+1)
				for _, r := range ranks[start : end+1] {
					run = append(run, levels[r])
				}
				for _, choice := range choosePairs(run) {
					out = append(out, newCombination(Tractor, choice, len(run), trump))
				}
			}
		}
	}
	return out
}

// choosePairs expands a run of rank levels, each holding one or more
// interchangeable pairs, into every way of picking one pair per level.
func choosePairs(levels [][][2]Card) [][]Card {
	results := [][]Card{nil}
	for _, options := range levels {
		next := make([][]Card, 0, len(results)*len(options))
		for _, prefix := range results {
			for _, p := range options {
				cards := append(slices.Clone(prefix), p[0], p[1])
				next = append(next, cards)
			}
		}
		results = next
	}
	return results
}
