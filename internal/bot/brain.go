package bot

import (
	"fmt"
	"math/rand"
	"sort"

	"tractor/internal/bot/brain"
	botinternal "tractor/internal/bot/internal"
	"tractor/internal/domain"
)

// TrickState classifies the trick from the acting seat's point of view.
type TrickState int

const (
	TrickLeading TrickState = iota
	TrickTeammateWinning
	TrickOpponentWinning
	TrickUndecided
)

func (s TrickState) String() string {
	switch s {
	case TrickLeading:
		return "leading"
	case TrickTeammateWinning:
		return "teammate_winning"
	case TrickOpponentWinning:
		return "opponent_winning"
	}
	return "undecided"
}

// PlayStyle switches the lead strategy.
type PlayStyle int

const (
	StyleNormal PlayStyle = iota
	// StyleDesperate is used by attackers far behind late in the round.
	StyleDesperate
)

func (s PlayStyle) String() string {
	if s == StyleDesperate {
		return "desperate"
	}
	return "normal"
}

// PointPressure is how urgent the score situation is for the acting team.
type PointPressure int

const (
	PressureLow PointPressure = iota
	PressureMedium
	PressureHigh
)

func (p PointPressure) String() string {
	switch p {
	case PressureMedium:
		return "medium"
	case PressureHigh:
		return "high"
	}
	return "low"
}

var positionNames = [domain.NumSeats]string{"first", "second", "third", "fourth"}

// Decision explains a selected move for logs and analysis.
type Decision struct {
	DecisionPoint   string
	IsAttackingTeam bool
	TrickPosition   string
	PointPressure   PointPressure
	Style           PlayStyle
	State           TrickState
	// BossCards and TrumpDominance are only filled in by expert bots.
	BossCards      int
	TrumpDominance float64
}

// DecisionContext is the input and working state of one pass through the
// decision pipeline. Stages reorder Candidates; the first candidate when
// the pipeline ends is played.
type DecisionContext struct {
	Game    *domain.Game
	Player  *domain.Player
	Trump   domain.TrumpInfo
	Memory  brain.CardMemory
	History *brain.HistoryAnalysis

	Trick          *domain.Trick
	Leading        bool
	Position       int
	LastToAct      bool
	OpponentsToAct []string
	IsAttacker     bool

	Profile      botinternal.HandProfile
	Boss         botinternal.BossStats
	Distribution map[string]map[domain.Suit]float64

	Phase    botinternal.GamePhase
	Weights  botinternal.PhaseWeights
	Style    PlayStyle
	Pressure PointPressure
	State    TrickState

	Candidates    []botinternal.Candidate
	DecisionPoint string
	Done          bool

	less func(a, b botinternal.Candidate) bool
}

// Rank orders the candidates with less and ends the pipeline.
func (ctx *DecisionContext) Rank(point string, less func(a, b botinternal.Candidate) bool) {
	sort.SliceStable(ctx.Candidates, func(i, j int) bool { return less(ctx.Candidates[i], ctx.Candidates[j]) })
	ctx.less = less
	ctx.DecisionPoint = point
	ctx.Done = true
}

// pick returns the best candidate. rng only chooses among candidates that
// the final ordering cannot tell apart.
func (ctx *DecisionContext) pick(rng *rand.Rand) botinternal.Candidate {
	best := ctx.Candidates[0]
	if rng == nil || ctx.less == nil {
		return best
	}
	ties := 1
	for ties < len(ctx.Candidates) && !ctx.less(best, ctx.Candidates[ties]) {
		ties++
	}
	return ctx.Candidates[rng.Intn(ties)]
}

// Options control a single decision.
type Options struct {
	Tuning botinternal.BotTuning
	Stages []Stage
	Rng    *rand.Rand
}

var expertOptions = func() Options {
	t, _ := TuningFor(BotLevelExpert)
	return Options{Tuning: t, Stages: DefaultStages()}
}()

// SelectMove picks a legal combination for playerID with the expert
// pipeline and no random tie-breaking.
func SelectMove(game *domain.Game, memory brain.CardMemory, playerID string) (domain.Combination, error) {
	move, err := Decide(game, memory, playerID, expertOptions)
	if err != nil {
		return domain.Combination{}, err
	}
	return move.Combo, nil
}

// Decide runs the decision pipeline for playerID, who must be the seat to act.
func Decide(game *domain.Game, memory brain.CardMemory, playerID string, opts Options) (Move, error) {
	player := game.PlayerByID(playerID)
	if player == nil || game.CurrentPlayer() == nil || game.CurrentPlayer().UserID != playerID {
		return Move{}, fmt.Errorf("%w: %s", ErrNotYourTurn, playerID)
	}

	ctx := newDecisionContext(game, memory, player, opts.Tuning)
	if len(ctx.Candidates) == 0 {
		return Move{}, fmt.Errorf("%w: %s holds %d cards", ErrNoLegalMove, playerID, len(player.Hand))
	}

	stages := opts.Stages
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	for _, stage := range stages {
		if ctx.Done {
			break
		}
		stage.Apply(ctx)
	}

	choice := ctx.pick(opts.Rng)
	var err error
	if ctx.Leading {
		err = domain.ValidateLead(choice.Cards, player.Hand, ctx.Trump)
	} else {
		err = domain.ValidatePlay(choice.Cards, ctx.Trick.Lead(), player.Hand, ctx.Trump)
	}
	if err != nil {
		return Move{}, fmt.Errorf("%w: selected %s: %v", ErrNoLegalMove, domain.FormatCards(choice.Cards), err)
	}

	return Move{
		Cards: choice.Cards,
		Combo: choice.Combo,
		Decision: Decision{
			DecisionPoint:   ctx.DecisionPoint,
			IsAttackingTeam: ctx.IsAttacker,
			TrickPosition:   positionNames[ctx.Position],
			PointPressure:   ctx.Pressure,
			Style:           ctx.Style,
			State:           ctx.State,
			BossCards:       len(ctx.Boss.BossSingles),
			TrumpDominance:  ctx.Boss.Dominance,
		},
	}, nil
}

func newDecisionContext(game *domain.Game, memory brain.CardMemory, player *domain.Player, tuning botinternal.BotTuning) *DecisionContext {
	trump := game.TrumpInfo
	ctx := &DecisionContext{
		Game:       game,
		Player:     player,
		Trump:      trump,
		Trick:      game.CurrentTrick,
		Position:   game.TrickPosition(),
		IsAttacker: game.IsAttacker(player.UserID),
		Phase:      botinternal.DetectPhase(game),
	}
	ctx.Leading = ctx.Position == 0
	ctx.LastToAct = ctx.Position == domain.NumSeats-1
	ctx.Weights = tuning.ForPhase(ctx.Phase)
	ctx.Profile = botinternal.ProfileHand(player.Hand, trump)
	if ctx.Leading {
		ctx.State = TrickLeading
	} else {
		ctx.State = TrickUndecided
	}

	if tuning.UseMemory {
		ctx.Memory = memory
		history := brain.AnalyzeTrickHistory(game.Tricks, game)
		ctx.History = &history
		ctx.Boss = botinternal.AnalyzeHand(player.Hand, memory)
		ctx.Distribution = brain.EstimateSuitDistribution(memory, player.Hand, player.UserID, seatIDs(game))
	} else {
		ctx.Memory = brain.NewMemory(trump)
	}

	for _, p := range game.SeatsToAct() {
		if p != nil && !game.SameTeam(p.UserID, player.UserID) {
			ctx.OpponentsToAct = append(ctx.OpponentsToAct, p.UserID)
		}
	}

	var lead *domain.Combination
	if !ctx.Leading {
		l := ctx.Trick.Lead()
		lead = &l
	}
	moves := botinternal.GetValidMoves(player.Hand, lead, trump)
	ctx.Candidates = botinternal.EvaluateCandidates(moves, botinternal.EvalInput{
		Hand:           player.Hand,
		Trump:          trump,
		Trick:          ctx.Trick,
		Memory:         ctx.Memory,
		OpponentsToAct: ctx.OpponentsToAct,
	})

	ctx.Pressure, ctx.Style = assessPressure(game, ctx.IsAttacker, ctx.History, tuning)
	if tuning.UseMemory && !ctx.IsAttacker && ctx.Pressure < PressureHigh && aggressiveAttackers(game, memory) {
		ctx.Pressure++
	}
	return ctx
}

func seatIDs(game *domain.Game) []string {
	ids := make([]string, 0, domain.NumSeats)
	for _, p := range game.Players {
		if p != nil {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// aggressiveAttackers reports whether an attacker has been stripping trump
// with most of their leads.
func aggressiveAttackers(game *domain.Game, memory brain.CardMemory) bool {
	for _, p := range game.Players {
		if p == nil || !game.IsAttacker(p.UserID) {
			continue
		}
		prof := memory.Profile(p.UserID)
		if prof.Leads >= aggressiveMinLeads && prof.Aggressiveness() >= aggressiveShare {
			return true
		}
	}
	return false
}

const (
	aggressiveMinLeads = 3
	aggressiveShare    = 0.5
)

// assessPressure rates the score situation for the acting team. Only
// attackers become desperate: they are the side that must catch up.
func assessPressure(game *domain.Game, attacker bool, history *brain.HistoryAnalysis, tuning botinternal.BotTuning) (PointPressure, PlayStyle) {
	played := 0
	for i := range game.Tricks {
		played += game.Tricks[i].Points
	}
	remaining := domain.TotalDeckPoints - played
	pts := game.AttackingPoints

	pressure := PressureLow
	style := StyleNormal
	if attacker {
		need := domain.AttackerWinThreshold - pts
		switch {
		case need <= 0:
		case remaining <= 0 || need*10 >= remaining*6:
			pressure = PressureHigh
		case need*10 >= remaining*3:
			pressure = PressureMedium
		}
		if tuning.DesperateDeficit > 0 && need >= tuning.DesperateDeficit && game.Progress() >= tuning.DesperateProgress {
			style = StyleDesperate
		}
	} else {
		switch {
		case pts*4 >= domain.AttackerWinThreshold*3:
			pressure = PressureHigh
		case pts*10 >= domain.AttackerWinThreshold*4:
			pressure = PressureMedium
		}
	}

	if history != nil && pressure < PressureHigh {
		trend := history.Progression.Trend
		if (attacker && trend == brain.TrendFalling) || (!attacker && trend == brain.TrendRising) {
			pressure++
		}
	}
	return pressure, style
}
