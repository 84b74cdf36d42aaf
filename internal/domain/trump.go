package domain

// TrumpInfo fixes the trump rank and trump suit for a round. TrumpSuit is
// SuitNone when no suit is trump (joker declaration or nobody declared).
type TrumpInfo struct {
	TrumpRank Rank
	TrumpSuit Suit
}

// IsTrump reports whether c belongs to the trump group.
func (t TrumpInfo) IsTrump(c Card) bool {
	if c.IsJoker() || c.Rank == t.TrumpRank {
		return true
	}
	return t.TrumpSuit != SuitNone && c.Suit == t.TrumpSuit
}

// EffectiveSuit is the suit a card follows as: its natural suit, or SuitNone
// for every trump card.
func (t TrumpInfo) EffectiveSuit(c Card) Suit {
	if t.IsTrump(c) {
		return SuitNone
	}
	return c.Suit
}

// Tractor rank tiers. Gaps keep cards of different contexts from ever being
// numerically adjacent.
const (
	suitTierStride       = 16
	trumpSuitTier        = 100
	offSuitTrumpRankTier = 120
	trumpSuitTrumpRank   = 121
	smallJokerTier       = 130
	bigJokerTier         = 131
)

// bridgedRank closes the gap left by the trump rank so that the cards on
// either side of it count as adjacent. The result is always within 3..14.
func bridgedRank(r, trumpRank Rank) int {
	if r < trumpRank {
		return int(r) + 1
	}
	return int(r)
}

// TractorRank maps a card to an integer such that two pairs in the same
// tractor context are consecutive exactly when their ranks differ by one.
// Higher values are stronger within a context, and every trump card ranks
// above every non-trump card.
func TractorRank(c Card, t TrumpInfo) int {
	switch {
	case c.Rank == BigJoker:
		return bigJokerTier
	case c.Rank == SmallJoker:
		return smallJokerTier
	case c.Rank == t.TrumpRank:
		if t.TrumpSuit != SuitNone && c.Suit == t.TrumpSuit {
			return trumpSuitTrumpRank
		}
		return offSuitTrumpRankTier
	case t.TrumpSuit != SuitNone && c.Suit == t.TrumpSuit:
		return trumpSuitTier + bridgedRank(c.Rank, t.TrumpRank)
	}
	return int(c.Suit)*suitTierStride + bridgedRank(c.Rank, t.TrumpRank)
}

// ContextKind groups cards that may chain into one tractor.
type ContextKind int

const (
	ContextSuit ContextKind = iota
	ContextTrumpRank
	ContextJoker
)

// TractorContext is comparable; pairs form a tractor only with equal contexts.
type TractorContext struct {
	Kind ContextKind
	Suit Suit
}

// TractorContextOf returns the chaining context of c. Trump-rank cards share
// one context regardless of suit; jokers share another; everything else
// chains within its natural suit (including the trump suit).
func TractorContextOf(c Card, t TrumpInfo) TractorContext {
	switch {
	case c.IsJoker():
		return TractorContext{Kind: ContextJoker}
	case c.Rank == t.TrumpRank:
		return TractorContext{Kind: ContextTrumpRank}
	}
	return TractorContext{Kind: ContextSuit, Suit: c.Suit}
}

// Compare orders two cards by strength for sorting: tractor rank first, then
// suit and deck tag so the order is total.
func (t TrumpInfo) Compare(a, b Card) int {
	ra, rb := TractorRank(a, t), TractorRank(b, t)
	switch {
	case ra != rb:
		return ra - rb
	case a.Suit != b.Suit:
		return int(a.Suit) - int(b.Suit)
	}
	return a.Deck - b.Deck
}

// CardsInSuit returns the cards of hand whose effective suit is suit.
// Passing SuitNone selects the trump group.
func (t TrumpInfo) CardsInSuit(hand []Card, suit Suit) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if t.EffectiveSuit(c) == suit {
			out = append(out, c)
		}
	}
	return out
}
