package bot

import (
	"math/rand"

	"tractor/internal/bot/brain"
	botinternal "tractor/internal/bot/internal"
	"tractor/internal/domain"
)

// pipelineBot runs the decision pipeline with a level's tuning and stages.
type pipelineBot struct {
	level  BotLevel
	tuning botinternal.BotTuning
	rng    *rand.Rand
}

func (b *pipelineBot) Level() BotLevel { return b.level }

func (b *pipelineBot) CalculateMove(game *domain.Game, memory brain.CardMemory, playerID string) (Move, error) {
	stages := DefaultStages()
	if b.level == BotLevelEasy {
		stages = EasyStages()
	}
	return Decide(game, memory, playerID, Options{Tuning: b.tuning, Stages: stages, Rng: b.rng})
}

func (b *pipelineBot) ChooseDeclaration(game *domain.Game, playerID string) ([]domain.Card, bool) {
	return ChooseDeclaration(game, playerID, b.level)
}
