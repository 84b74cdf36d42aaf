package bot

import (
	"errors"

	"tractor/internal/bot/brain"
	"tractor/internal/domain"
)

// ErrNoLegalMove means the rule engine produced no legal candidate for a
// turn that must have one. It signals an engine defect, never a game state.
var ErrNoLegalMove = errors.New("bot: no legal move")

// ErrNotYourTurn is returned when a brain is asked to act out of turn.
var ErrNotYourTurn = errors.New("bot: not this player's turn")

// Move represents the decision made by the AI.
type Move struct {
	Cards    []domain.Card
	Combo    domain.Combination
	Decision Decision
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(game *domain.Game, memory brain.CardMemory, playerID string) (Move, error)
	ChooseDeclaration(game *domain.Game, playerID string) ([]domain.Card, bool)
	Level() BotLevel
}
