package domain

import (
	"slices"
	"sort"
)

// Scenario classifies a follower's holding in the led suit.
type Scenario string

const (
	// ScenarioVoid means no card of the leading suit is held.
	ScenarioVoid Scenario = "void"
	// ScenarioInsufficient means fewer suit cards are held than the lead requires.
	ScenarioInsufficient Scenario = "insufficient"
	// ScenarioValidCombos means a same-length combination of compatible shape exists.
	ScenarioValidCombos Scenario = "valid_combos"
	// ScenarioEnoughRemaining means enough suit cards are held but no matching shape.
	ScenarioEnoughRemaining Scenario = "enough_remaining"
)

// Availability describes what a follower can offer in the leading suit.
type Availability struct {
	Scenario       Scenario
	LeadingSuit    Suit // SuitNone when the lead is trump
	LeadType       ComboType
	RequiredLength int
	AvailableCount int
	RemainingCards []Card
	ValidCombos    []Combination
}

// AnalyzeAvailability classifies hand against lead.
func AnalyzeAvailability(lead Combination, hand []Card, trump TrumpInfo) Availability {
	av := Availability{
		LeadingSuit:    leadingSuit(lead, trump),
		LeadType:       lead.Type,
		RequiredLength: len(lead.Cards),
	}
	av.RemainingCards = sortedCopy(trump.CardsInSuit(hand, av.LeadingSuit), trump)
	av.AvailableCount = len(av.RemainingCards)

	switch {
	case av.AvailableCount == 0:
		av.Scenario = ScenarioVoid
	case av.AvailableCount < av.RequiredLength:
		av.Scenario = ScenarioInsufficient
	default:
		for _, combo := range IdentifyCombinations(av.RemainingCards, trump) {
			if len(combo.Cards) == av.RequiredLength && combo.Type.Satisfies(lead.Type) {
				av.ValidCombos = append(av.ValidCombos, combo)
			}
		}
		if len(av.ValidCombos) > 0 {
			av.Scenario = ScenarioValidCombos
		} else {
			av.Scenario = ScenarioEnoughRemaining
		}
	}
	return av
}

func leadingSuit(lead Combination, trump TrumpInfo) Suit {
	if len(lead.Cards) == 0 {
		return SuitNone
	}
	return trump.EffectiveSuit(lead.Cards[0])
}

// maxEnumeratedPlays bounds exhaustive subset enumeration in LegalPlays.
const maxEnumeratedPlays = 400

// LegalPlays lists legal follows for hand against lead; it is never empty
// for a hand holding at least the required number of cards. Small choice
// spaces are enumerated completely. Larger ones are sampled with a fixed set
// of shapes (weakest cards, point cards first, pairs first, strongest cards)
// and, when void, every same-shaped trump combination.
func LegalPlays(lead Combination, hand []Card, trump TrumpInfo) [][]Card {
	av := AnalyzeAvailability(lead, hand, trump)
	required := av.RequiredLength
	set := newPlaySet(trump)

	switch av.Scenario {
	case ScenarioValidCombos:
		for _, combo := range av.ValidCombos {
			set.add(combo.Cards)
		}
	case ScenarioEnoughRemaining:
		for _, pick := range chooseCards(av.RemainingCards, required, trump) {
			set.add(pick)
		}
	case ScenarioInsufficient:
		rest := RemoveCards(hand, av.RemainingCards)
		for _, filler := range chooseCards(rest, required-av.AvailableCount, trump) {
			set.add(append(slices.Clone(av.RemainingCards), filler...))
		}
	case ScenarioVoid:
		for _, pick := range chooseCards(hand, required, trump) {
			set.add(pick)
		}
		trumps := trump.CardsInSuit(hand, SuitNone)
		for _, combo := range IdentifyCombinations(trumps, trump) {
			if combo.SameShape(lead) {
				set.add(combo.Cards)
			}
		}
	}
	return set.plays
}

type playSet struct {
	trump TrumpInfo
	seen  map[string]bool
	plays [][]Card
}

func newPlaySet(trump TrumpInfo) *playSet {
	return &playSet{trump: trump, seen: make(map[string]bool)}
}

func (s *playSet) add(cards []Card) {
	if len(cards) == 0 {
		return
	}
	sorted := sortedCopy(cards, s.trump)
	key := FormatCards(sorted)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.plays = append(s.plays, sorted)
}

// chooseCards returns k-card selections from cards.
func chooseCards(cards []Card, k int, trump TrumpInfo) [][]Card {
	if k <= 0 {
		return [][]Card{nil}
	}
	if k > len(cards) {
		return nil
	}
	sorted := sortedCopy(cards, trump)
	if binomial(len(sorted), k) <= maxEnumeratedPlays {
		return allSubsets(sorted, k)
	}

	weakest := slices.Clone(sorted[:k])
	strongest := slices.Clone(sorted[len(sorted)-k:])

	byPointsLow := slices.Clone(sorted)
	sort.SliceStable(byPointsLow, func(i, j int) bool { return byPointsLow[i].Points() < byPointsLow[j].Points() })
	byPointsHigh := slices.Clone(sorted)
	sort.SliceStable(byPointsHigh, func(i, j int) bool { return byPointsHigh[i].Points() > byPointsHigh[j].Points() })

	var pairsFirst []Card
	for _, p := range findPairs(sorted) {
		if len(pairsFirst)+2 <= k {
			pairsFirst = append(pairsFirst, p[0], p[1])
		}
	}
	for _, c := range sorted {
		if len(pairsFirst) == k {
			break
		}
		if countFace(pairsFirst, c) < countFace(sorted, c) {
			pairsFirst = append(pairsFirst, c)
		}
	}

	return [][]Card{weakest, byPointsLow[:k], byPointsHigh[:k], pairsFirst, strongest}
}

func countFace(cards []Card, c Card) int {
	n := 0
	for _, x := range cards {
		if SameFace(x, c) {
			n++
		}
	}
	return n
}

func allSubsets(cards []Card, k int) [][]Card {
	var out [][]Card
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		pick := make([]Card, k)
		for i, j := range idx {
			pick[i] = cards[j]
		}
		out = append(out, pick)

		i := k - 1
		for i >= 0 && idx[i] == len(cards)-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
		if result > maxEnumeratedPlays {
			return result
		}
	}
	return result
}
