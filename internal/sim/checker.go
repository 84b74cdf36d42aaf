package sim

import (
	"fmt"
	"strings"

	"tractor/internal/app"
	"tractor/internal/bot/brain"
	"tractor/internal/domain"
)

// checker verifies round invariants between plays.
type checker struct {
	round  *app.Round
	memory brain.CardMemory
	closed []string
}

func newChecker(r *app.Round) *checker {
	return &checker{round: r, memory: r.Memory.Clone()}
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// beforePlay checks that the seat to act has at least one legal play.
func (c *checker) beforePlay() error {
	game := c.round.Game
	hand := game.CurrentPlayer().Hand
	if len(hand) == 0 {
		return violation("%s to act with an empty hand", game.CurrentPlayer().UserID)
	}
	if game.CurrentTrick == nil {
		return nil
	}
	if len(domain.LegalPlays(game.CurrentTrick.Lead(), hand, game.TrumpInfo)) == 0 {
		return violation("no legal follow for %s", game.CurrentPlayer().UserID)
	}
	return nil
}

// afterPlay checks card conservation, hand sizes, closed trick immutability
// and memory monotonicity.
func (c *checker) afterPlay() error {
	game := c.round.Game

	played := make(map[string]int, domain.NumSeats)
	total := len(game.Kitty)
	count := func(t *domain.Trick) {
		for _, p := range t.Plays {
			played[p.PlayerID] += len(p.Cards)
			total += len(p.Cards)
		}
	}
	for i := range game.Tricks {
		count(&game.Tricks[i])
	}
	if game.CurrentTrick != nil {
		count(game.CurrentTrick)
	}
	for _, p := range game.Players {
		total += len(p.Hand)
		if len(p.Hand)+played[p.UserID] != domain.HandSize {
			return violation("%s holds %d cards after playing %d", p.UserID, len(p.Hand), played[p.UserID])
		}
	}
	if total != domain.DeckSize {
		return violation("%d cards in the round, want %d", total, domain.DeckSize)
	}

	for i, key := range c.closed {
		if got := trickKey(game.Tricks[i]); got != key {
			return violation("closed trick %d changed: %s became %s", i, key, got)
		}
	}
	for i := len(c.closed); i < len(game.Tricks); i++ {
		c.closed = append(c.closed, trickKey(game.Tricks[i]))
	}

	next := c.round.Memory
	if next.TricksRecorded != len(game.Tricks) {
		return violation("memory recorded %d tricks, %d closed", next.TricksRecorded, len(game.Tricks))
	}
	for face, n := range c.memory.Played {
		if next.Played[face] < n {
			return violation("memory forgot %v", face)
		}
	}
	c.memory = next.Clone()
	return nil
}

// atEnd checks the final score against the cards taken.
func (c *checker) atEnd() error {
	game := c.round.Game
	if game.Result == nil {
		return violation("round ended without a result")
	}

	points := domain.TotalPoints(game.Kitty)
	attacking := 0
	for _, t := range game.Tricks {
		points += t.Points
		if game.IsAttacker(t.WinnerID) {
			attacking += t.Points
		}
	}
	if points != domain.TotalDeckPoints {
		return violation("%d points in the round, want %d", points, domain.TotalDeckPoints)
	}
	if want := attacking + game.Result.KittyPoints; game.Result.AttackingPoints != want {
		return violation("attackers scored %d, tricks and kitty give %d", game.Result.AttackingPoints, want)
	}
	if game.Result.AttackersWon != (game.Result.AttackingPoints >= domain.AttackerWinThreshold) {
		return violation("winner does not match %d attacking points", game.Result.AttackingPoints)
	}
	return nil
}

func trickKey(t domain.Trick) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s>%s:%d", t.LeaderID, t.WinnerID, t.Points)
	for _, p := range t.Plays {
		fmt.Fprintf(&b, "|%s=%s", p.PlayerID, domain.FormatCards(p.Cards))
	}
	return b.String()
}
