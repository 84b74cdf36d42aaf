package brain

import (
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"tractor/internal/domain"
)

// CardMemory is everything a seat can know from the tricks closed so far in
// a round. It is a value: RecordTrick returns an updated copy and leaves its
// input untouched, so memory can always be rebuilt by replaying tricks.
type CardMemory struct {
	Trump domain.TrumpInfo

	// Played counts copies of each face already seen on the table.
	Played map[domain.Face]int
	// PlayedCards lists every played card in play order.
	PlayedCards []domain.Card
	// SuitPlayed counts played cards by effective suit (SuitNone is trump).
	SuitPlayed map[domain.Suit]int

	TrumpPlayed    int
	PointsPlayed   int
	TricksRecorded int

	// Voids holds, per player, the effective suits they have shown out of.
	Voids map[string]mapset.Set[domain.Suit]
	// Profiles aggregates per-player behaviour.
	Profiles map[string]PlayerProfile
}

// NewMemory returns the empty memory for a round played under trump.
func NewMemory(trump domain.TrumpInfo) CardMemory {
	return CardMemory{
		Trump:      trump,
		Played:     make(map[domain.Face]int),
		SuitPlayed: make(map[domain.Suit]int),
		Voids:      make(map[string]mapset.Set[domain.Suit]),
		Profiles:   make(map[string]PlayerProfile),
	}
}

// Clone returns a deep copy of m.
func (m CardMemory) Clone() CardMemory {
	out := m
	out.Played = maps.Clone(m.Played)
	out.PlayedCards = slices.Clone(m.PlayedCards)
	out.SuitPlayed = maps.Clone(m.SuitPlayed)
	out.Profiles = maps.Clone(m.Profiles)
	out.Voids = make(map[string]mapset.Set[domain.Suit], len(m.Voids))
	for id, set := range m.Voids {
		out.Voids[id] = set.Clone()
	}
	if out.Played == nil {
		out.Played = make(map[domain.Face]int)
	}
	if out.SuitPlayed == nil {
		out.SuitPlayed = make(map[domain.Suit]int)
	}
	if out.Profiles == nil {
		out.Profiles = make(map[string]PlayerProfile)
	}
	return out
}

// RecordTrick folds one closed trick into memory and returns the result.
func RecordTrick(m CardMemory, trick domain.Trick) CardMemory {
	next := m.Clone()
	if len(trick.Plays) == 0 {
		return next
	}

	lead := trick.Plays[0].Combo
	leadSuit := domain.SuitNone
	if len(lead.Cards) > 0 {
		leadSuit = next.Trump.EffectiveSuit(lead.Cards[0])
	}

	forcedTrump := lead.Trump
	for i, play := range trick.Plays {
		inSuit := 0
		for _, c := range play.Cards {
			next.Played[c.Face()]++
			next.PlayedCards = append(next.PlayedCards, c)
			suit := next.Trump.EffectiveSuit(c)
			next.SuitPlayed[suit]++
			next.PointsPlayed += c.Points()
			if suit == domain.SuitNone {
				next.TrumpPlayed++
				if i > 0 && !lead.Trump {
					forcedTrump = true
				}
			}
			if suit == leadSuit {
				inSuit++
			}
		}

		profile := next.profile(play.PlayerID)
		profile.CardsPlayed += len(play.Cards)
		profile.PointsContributed += play.Combo.Points()
		if i > 0 && inSuit < len(lead.Cards) {
			next.markVoid(play.PlayerID, leadSuit)
			profile.FollowFailures++
		}
		next.Profiles[play.PlayerID] = profile
	}

	leader := next.profile(trick.Plays[0].PlayerID)
	leader.Leads++
	if lead.Trump {
		leader.TrumpLeads++
	}
	if lead.Points() > 0 {
		leader.PointLeads++
	}
	if forcedTrump {
		leader.ForcedTrumpLeads++
	}
	next.Profiles[leader.PlayerID] = leader

	if trick.WinnerID != "" {
		winner := next.profile(trick.WinnerID)
		winner.TricksWon++
		winner.PointsWon += trick.Points
		next.Profiles[winner.PlayerID] = winner
	}

	next.TricksRecorded++
	return next
}

// BuildMemory replays closed tricks from an empty memory.
func BuildMemory(trump domain.TrumpInfo, tricks []domain.Trick) CardMemory {
	m := NewMemory(trump)
	for _, t := range tricks {
		m = RecordTrick(m, t)
	}
	return m
}

func (m CardMemory) profile(playerID string) PlayerProfile {
	if p, ok := m.Profiles[playerID]; ok {
		return p
	}
	return PlayerProfile{PlayerID: playerID}
}

func (m CardMemory) markVoid(playerID string, suit domain.Suit) {
	set, ok := m.Voids[playerID]
	if !ok {
		set = mapset.NewThreadUnsafeSet[domain.Suit]()
		m.Voids[playerID] = set
	}
	set.Add(suit)
}

// IsVoid reports whether playerID has shown out of the effective suit.
func (m CardMemory) IsVoid(playerID string, suit domain.Suit) bool {
	set, ok := m.Voids[playerID]
	return ok && set.Contains(suit)
}

// PlayedCount returns how many copies of a face have been played.
func (m CardMemory) PlayedCount(f domain.Face) int { return m.Played[f] }

// Outstanding returns how many copies of face may still sit in another
// player's hand, given the viewer's own hand.
func (m CardMemory) Outstanding(f domain.Face, hand []domain.Card) int {
	n := domain.DeckCopies - m.Played[f]
	for _, c := range hand {
		if c.Face() == f {
			n--
		}
	}
	return max(n, 0)
}

// Profile returns the behaviour aggregate for playerID.
func (m CardMemory) Profile(playerID string) PlayerProfile { return m.profile(playerID) }
