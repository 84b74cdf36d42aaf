package bot

import (
	"fmt"

	"tractor/internal/bot/brain"
	"tractor/internal/config"
	"tractor/internal/domain"
)

// Agent represents an autonomous bot player seated in a game.
type Agent struct {
	ID    string
	Name  string
	Brain Brain
}

// NewAgent builds an agent for a seat with a fresh brain of the given level
// and the configured AI overrides.
func NewAgent(id, name string, level BotLevel, ai config.AITuning) (*Agent, error) {
	b, err := NewConfiguredBrain(level, nil, ai)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: id, Name: name, Brain: b}, nil
}

// Play asks the agent for its move. The agent must be the seat to act.
func (a *Agent) Play(game *domain.Game, memory brain.CardMemory) (Move, error) {
	if game.PlayerByID(a.ID) == nil {
		return Move{}, fmt.Errorf("%w: %s is not seated", ErrNotYourTurn, a.ID)
	}
	return a.Brain.CalculateMove(game, memory, a.ID)
}

// Declare returns the cards the agent wants to declare trump with.
func (a *Agent) Declare(game *domain.Game) ([]domain.Card, bool) {
	if game.PlayerByID(a.ID) == nil {
		return nil, false
	}
	return a.Brain.ChooseDeclaration(game, a.ID)
}
