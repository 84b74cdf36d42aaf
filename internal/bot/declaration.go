package bot

import (
	"tractor/internal/domain"
)

// Minimum natural-suit length before a bot names that suit as trump.
const (
	minSuitForSingle = 7
	minSuitForPair   = 5
	// minTrumpForJokers is the count of jokers and trump-rank cards that
	// makes a no-suit joker declaration worthwhile.
	minTrumpForJokers = 5
)

type declarationOption struct {
	cards   []domain.Card
	decl    domain.Declaration
	support int
}

// ChooseDeclaration picks the cards playerID should show to declare trump,
// or reports false when the bot should stay silent. Bots never override
// their partner, and easy bots only declare with pairs.
func ChooseDeclaration(game *domain.Game, playerID string, level BotLevel) ([]domain.Card, bool) {
	state := game.Declarations
	player := game.PlayerByID(playerID)
	if state == nil || state.Finalized || player == nil {
		return nil, false
	}
	if cur := state.Current; cur != nil && cur.PlayerID != playerID && game.SameTeam(cur.PlayerID, playerID) {
		return nil, false
	}

	trumpRank := state.TrumpRank
	bySuit := make(map[domain.Suit][]domain.Card)
	suitLen := make(map[domain.Suit]int)
	var small, big []domain.Card
	trumpish := 0
	for _, c := range player.Hand {
		switch {
		case c.Rank == domain.SmallJoker:
			small = append(small, c)
			trumpish++
		case c.Rank == domain.BigJoker:
			big = append(big, c)
			trumpish++
		case c.Rank == trumpRank:
			bySuit[c.Suit] = append(bySuit[c.Suit], c)
			trumpish++
		default:
			suitLen[c.Suit]++
		}
	}

	var options []declarationOption
	add := func(cards []domain.Card, support int) {
		d, err := domain.NewDeclaration(playerID, cards, trumpRank)
		if err != nil || !domain.CanOverride(state.Current, d) {
			return
		}
		options = append(options, declarationOption{cards: cards, decl: d, support: support})
	}

	for _, s := range domain.StandardSuits {
		held := bySuit[s]
		support := suitLen[s] + trumpish
		if len(held) >= 2 && suitLen[s] >= minSuitForPair {
			add(held[:2], support)
		}
		if len(held) >= 1 && suitLen[s] >= minSuitForSingle && level != BotLevelEasy {
			add(held[:1], support)
		}
	}
	if trumpish >= minTrumpForJokers {
		if len(small) >= 2 {
			add(small[:2], trumpish)
		}
		if len(big) >= 2 {
			add(big[:2], trumpish)
		}
	}

	best := -1
	for i, o := range options {
		if best < 0 || betterDeclaration(o, options[best]) {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	return options[best].cards, true
}

// betterDeclaration prefers the cheapest declaration that still wins the
// bidding, then stronger suit support.
func betterDeclaration(a, b declarationOption) bool {
	if a.decl.Type != b.decl.Type {
		return a.decl.Type < b.decl.Type
	}
	return a.support > b.support
}
