package app

import (
	"tractor/internal/bot/brain"
	"tractor/internal/domain"
)

// Round is one deal at a table: the authoritative game state plus the card
// memory folded from its closed tricks.
type Round struct {
	ID     string
	Game   *domain.Game
	Memory brain.CardMemory
}

// Over reports whether the round has been scored.
func (r *Round) Over() bool { return r.Game.Phase == domain.PhaseEnded }
