// Package sim plays whole rounds between bot seats through the round driver
// and checks the engine's invariants after every step.
package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/heroiclabs/nakama-common/runtime"

	"tractor/internal/app"
	"tractor/internal/bot"
	"tractor/internal/config"
	"tractor/internal/domain"
	"tractor/internal/gamelog"
)

// ErrInvariant marks a broken engine invariant found during self-play.
var ErrInvariant = errors.New("sim: invariant violated")

// maxPlaysPerRound bounds a round; a round that runs longer never ends.
const maxPlaysPerRound = domain.NumSeats*domain.HandSize + domain.NumSeats

// Options configures a batch of rounds.
type Options struct {
	// Levels is the bot level per seat. Zero entries play at the standard level.
	Levels    [domain.NumSeats]bot.BotLevel
	TrumpRank domain.Rank
	AI        config.AITuning
	// Declare lets bots bid for trump before each round is finalized.
	Declare  bool
	Logger   runtime.Logger
	Recorder *gamelog.Recorder
}

func (o Options) withDefaults() Options {
	for i, l := range o.Levels {
		if l == 0 {
			o.Levels[i] = bot.BotLevelStandard
		}
	}
	if o.TrumpRank == 0 {
		o.TrumpRank = domain.Two
	}
	if o.Logger == nil {
		o.Logger = gamelog.NewJSONLogger(io.Discard, slog.LevelError)
	}
	return o
}

// Outcome is the result of one simulated round.
type Outcome struct {
	RoundID  string
	Result   domain.RoundResult
	Declared bool
	Trump    domain.TrumpInfo
	// WinsByPosition counts tricks won by the n-th player to act in the trick.
	WinsByPosition [domain.NumSeats]int
	Tricks         int
	Plays          int
}

// Stats aggregates a batch of rounds.
type Stats struct {
	Rounds             int
	AttackerWins       int
	Declared           int
	TotalAttackPoints  int
	TotalKittyPoints   int
	WinsByPosition     [domain.NumSeats]int
	AttackerWinsByTeam [2]int
	Tricks             int
	Plays              int
}

// AttackerWinRate is the share of rounds won by the attacking team.
func (s Stats) AttackerWinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.AttackerWins) / float64(s.Rounds)
}

// AvgAttackingPoints is the mean final score of the attacking team.
func (s Stats) AvgAttackingPoints() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.TotalAttackPoints) / float64(s.Rounds)
}

func (s *Stats) add(o Outcome) {
	s.Rounds++
	s.TotalAttackPoints += o.Result.AttackingPoints
	s.TotalKittyPoints += o.Result.KittyPoints
	if o.Result.AttackersWon {
		s.AttackerWins++
		s.AttackerWinsByTeam[o.Result.AttackingTeam]++
	}
	if o.Declared {
		s.Declared++
	}
	for i, n := range o.WinsByPosition {
		s.WinsByPosition[i] += n
	}
	s.Tricks += o.Tricks
	s.Plays += o.Plays
}

// AvgTricks is the mean number of tricks per round. Pair and tractor leads
// make it smaller than the hand size.
func (s Stats) AvgTricks() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Tricks) / float64(s.Rounds)
}

// SeatIDs are the player IDs used for simulated seats.
var SeatIDs = [domain.NumSeats]string{"p0", "p1", "p2", "p3"}

// RunRounds plays rounds rounds from seed, rotating the dealer every round.
// The same seed and options always produce the same rounds.
func RunRounds(seed int64, rounds int, opts Options) (Stats, error) {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(seed))
	svc := app.NewService(rng, opts.Logger, opts.Recorder)

	var brains [domain.NumSeats]bot.Brain
	for i, level := range opts.Levels {
		b, err := bot.NewConfiguredBrain(level, rand.New(rand.NewSource(seed+int64(i)+1)), opts.AI)
		if err != nil {
			return Stats{}, fmt.Errorf("seat %d: %w", i, err)
		}
		brains[i] = b
	}

	var stats Stats
	for n := 0; n < rounds; n++ {
		outcome, err := PlayRound(svc, brains, opts.TrumpRank, n%domain.NumSeats, opts.Declare)
		if err != nil {
			return stats, fmt.Errorf("round %d (seed %d): %w", n, seed, err)
		}
		stats.add(outcome)
		opts.Logger.WithFields(map[string]interface{}{
			"round":            n,
			"attacking_points": outcome.Result.AttackingPoints,
			"attackers_won":    outcome.Result.AttackersWon,
		}).Debug("simulated round")
	}
	return stats, nil
}

// PlayRound deals and plays one round with a brain per seat, checking every
// invariant after each play.
func PlayRound(svc *app.Service, brains [domain.NumSeats]bot.Brain, trumpRank domain.Rank, dealer int, declare bool) (Outcome, error) {
	round, _, err := svc.StartRound(SeatIDs, trumpRank, dealer)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{RoundID: round.ID}
	if declare {
		// Two passes give every seat a chance to override.
		for pass := 0; pass < 2; pass++ {
			for i := 0; i < domain.NumSeats; i++ {
				seat := (dealer + i) % domain.NumSeats
				_, ok, err := svc.DeclareBot(round, brains[seat], SeatIDs[seat])
				if err != nil {
					return out, err
				}
				out.Declared = out.Declared || ok
			}
		}
	}
	if _, err := svc.FinalizeDeclaration(round); err != nil {
		return out, err
	}
	out.Trump = round.Game.TrumpInfo

	check := newChecker(round)
	for !round.Over() {
		if out.Plays >= maxPlaysPerRound {
			return out, fmt.Errorf("%w: round did not end after %d plays", ErrInvariant, out.Plays)
		}
		if err := check.beforePlay(); err != nil {
			return out, err
		}
		seat := round.Game.CurrentSeat
		if _, err := svc.PlayBot(round, brains[seat]); err != nil {
			return out, fmt.Errorf("%w: seat %d: %v", ErrInvariant, seat, err)
		}
		out.Plays++
		if err := check.afterPlay(); err != nil {
			return out, err
		}
	}
	if err := check.atEnd(); err != nil {
		return out, err
	}

	out.Result = *round.Game.Result
	out.Tricks = len(round.Game.Tricks)
	for _, t := range round.Game.Tricks {
		for i, p := range t.Plays {
			if p.PlayerID == t.WinnerID {
				out.WinsByPosition[i]++
				break
			}
		}
	}
	return out, nil
}
