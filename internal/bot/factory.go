package bot

import (
	"fmt"
	"math/rand"
	"strings"

	"tractor/internal/config"
)

// BotLevel selects how much of the decision pipeline a bot uses.
type BotLevel int

const (
	// BotLevelEasy always plays the lowest-conservation legal move.
	BotLevelEasy BotLevel = iota + 1
	// BotLevelStandard runs the full pipeline without card counting.
	BotLevelStandard
	// BotLevelExpert adds card memory and trick history analysis.
	BotLevelExpert
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelEasy:
		return "easy"
	case BotLevelStandard:
		return "standard"
	case BotLevelExpert:
		return "expert"
	}
	return fmt.Sprintf("BotLevel(%d)", int(l))
}

// ParseBotLevel maps a difficulty name to a level. "medium" and "hard" are
// accepted as aliases used by bot identity files.
func ParseBotLevel(name string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy":
		return BotLevelEasy, nil
	case "standard", "medium", "":
		return BotLevelStandard, nil
	case "expert", "hard":
		return BotLevelExpert, nil
	}
	return 0, fmt.Errorf("unknown bot level %q", name)
}

// NewBrain creates a new AI brain based on the specified level. rng only
// breaks exact ties and may be nil for fully deterministic play.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	tuning, err := TuningFor(level)
	if err != nil {
		return nil, err
	}
	return &pipelineBot{level: level, tuning: tuning, rng: rng}, nil
}

// NewConfiguredBrain is NewBrain with the configured AI overrides applied.
func NewConfiguredBrain(level BotLevel, rng *rand.Rand, ai config.AITuning) (Brain, error) {
	tuning, err := TuningFor(level)
	if err != nil {
		return nil, err
	}
	if level != BotLevelEasy {
		tuning = ApplyConfig(tuning, ai)
	}
	return &pipelineBot{level: level, tuning: tuning, rng: rng}, nil
}
