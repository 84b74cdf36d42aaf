package bot

import (
	"fmt"

	botinternal "tractor/internal/bot/internal"
	"tractor/internal/config"
)

// DefaultTuning is used by standard bots.
var DefaultTuning = botinternal.BotTuning{
	Opening: botinternal.PhaseWeights{
		TakeTrickMinPoints: 0,
		ProbeMaxSuitLength: 3,
		CashBossCombos:     true,
	},
	Mid: botinternal.PhaseWeights{
		TakeTrickMinPoints: 0,
		ProbeMaxSuitLength: 2,
		CashBossCombos:     true,
	},
	End: botinternal.PhaseWeights{
		TakeTrickMinPoints: 0,
		ProbeMaxSuitLength: 1,
		CashBossCombos:     true,
	},
	DesperateDeficit:  40,
	DesperateProgress: 0.6,
}

// TuningFor returns the tuning of a bot level.
func TuningFor(level BotLevel) (botinternal.BotTuning, error) {
	t := DefaultTuning
	switch level {
	case BotLevelEasy:
		t.DesperateDeficit = 0
	case BotLevelStandard:
	case BotLevelExpert:
		t.UseMemory = true
	default:
		return botinternal.BotTuning{}, fmt.Errorf("unknown bot level: %d", level)
	}
	return t, nil
}

// WithThresholds returns t with the desperate-play thresholds replaced
// where the supplied values are positive.
func WithThresholds(t botinternal.BotTuning, deficit int, progress float64) botinternal.BotTuning {
	if deficit > 0 {
		t.DesperateDeficit = deficit
	}
	if progress > 0 {
		t.DesperateProgress = progress
	}
	return t
}

// ApplyConfig layers the configured AI overrides onto t.
func ApplyConfig(t botinternal.BotTuning, ai config.AITuning) botinternal.BotTuning {
	t = WithThresholds(t, ai.DesperateDeficit, ai.DesperateProgress)
	if ai.TakeTrickMinPoints > 0 {
		t.Opening.TakeTrickMinPoints = ai.TakeTrickMinPoints
		t.Mid.TakeTrickMinPoints = ai.TakeTrickMinPoints
		t.End.TakeTrickMinPoints = ai.TakeTrickMinPoints
	}
	return t
}
