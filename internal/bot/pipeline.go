package bot

import (
	"tractor/internal/bot/brain"
	botinternal "tractor/internal/bot/internal"
	"tractor/internal/domain"
)

// Stage is one step of the decision pipeline. A stage either leaves the
// context alone or ranks the candidates and ends the pipeline.
type Stage interface {
	Name() string
	Apply(ctx *DecisionContext)
}

// DefaultStages is the full pipeline in its fixed order.
func DefaultStages() []Stage {
	return []Stage{
		&LeadSelectionStage{},
		&FollowClassificationStage{},
		&PointContributionStage{},
		&ConservationStage{},
	}
}

// EasyStages only disposes of the cheapest legal move.
func EasyStages() []Stage {
	return []Stage{&ConservationStage{}}
}

type candidate = botinternal.Candidate

// LeadSelectionStage picks a lead: desperate trump pressure, cashing
// guaranteed plain combinations, probing a short suit, or a safe low lead.
type LeadSelectionStage struct{}

func (s *LeadSelectionStage) Name() string { return "LeadSelection" }

func (s *LeadSelectionStage) Apply(ctx *DecisionContext) {
	if !ctx.Leading {
		return
	}

	if ctx.Style == StyleDesperate && anyCandidate(ctx.Candidates, func(c candidate) bool { return c.Combo.Trump }) {
		ctx.Rank("lead_desperate_trump", func(a, b candidate) bool {
			if a.Combo.Trump != b.Combo.Trump {
				return a.Combo.Trump
			}
			if a.Combo.Len() != b.Combo.Len() {
				return a.Combo.Len() > b.Combo.Len()
			}
			if a.Combo.Value != b.Combo.Value {
				return a.Combo.Value > b.Combo.Value
			}
			return a.Conservation < b.Conservation
		})
		return
	}

	boss := func(c candidate) bool { return c.Guaranteed && !c.Combo.Trump }
	if ctx.Weights.CashBossCombos && anyCandidate(ctx.Candidates, boss) {
		ctx.Rank("lead_boss", func(a, b candidate) bool {
			if boss(a) != boss(b) {
				return boss(a)
			}
			if a.Combo.Len() != b.Combo.Len() {
				return a.Combo.Len() > b.Combo.Len()
			}
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			return a.Conservation < b.Conservation
		})
		return
	}

	if suit := probeSuit(ctx); suit != domain.SuitNone {
		probe := func(c candidate) bool {
			return c.Combo.Type == domain.Single && !c.Combo.Trump && c.Combo.Suit == suit && c.Points == 0
		}
		if anyCandidate(ctx.Candidates, probe) {
			ctx.Rank("lead_probe", func(a, b candidate) bool {
				if probe(a) != probe(b) {
					return probe(a)
				}
				return a.Conservation < b.Conservation
			})
			return
		}
	}

	ctx.Rank("lead_safe_low", func(a, b candidate) bool {
		if a.Combo.Trump != b.Combo.Trump {
			return !a.Combo.Trump
		}
		if a.Points != b.Points {
			return a.Points < b.Points
		}
		// Lower average conservation per card first.
		if l, r := a.Conservation*b.Combo.Len(), b.Conservation*a.Combo.Len(); l != r {
			return l < r
		}
		return a.Combo.Len() > b.Combo.Len()
	})
}

// probeSuit returns the shortest plain suit short enough to void, skipping
// suits an opponent has already shown out of.
func probeSuit(ctx *DecisionContext) domain.Suit {
	best, bestCount := domain.SuitNone, 0
	for _, s := range domain.StandardSuits {
		n := ctx.Profile.SuitCounts[s]
		if n == 0 || n > ctx.Weights.ProbeMaxSuitLength || opponentVoid(ctx, s) {
			continue
		}
		if best == domain.SuitNone || n < bestCount {
			best, bestCount = s, n
		}
	}
	return best
}

// opponentVoid reports an opponent known, or with card counting expected,
// to hold no cards of suit.
func opponentVoid(ctx *DecisionContext, suit domain.Suit) bool {
	for _, p := range ctx.Game.Players {
		if p == nil || ctx.Game.SameTeam(p.UserID, ctx.Player.UserID) {
			continue
		}
		if ctx.Memory.IsVoid(p.UserID, suit) {
			return true
		}
		if est, ok := ctx.Distribution[p.UserID]; ok && est[suit] < 0.5 {
			return true
		}
	}
	return false
}

// FollowClassificationStage decides whether the trick belongs to the
// partner, to an opponent, or is still open.
type FollowClassificationStage struct{}

func (s *FollowClassificationStage) Name() string { return "FollowClassification" }

func (s *FollowClassificationStage) Apply(ctx *DecisionContext) {
	if ctx.Leading {
		return
	}
	winner := ctx.Trick.Winning()
	if ctx.Game.SameTeam(winner.PlayerID, ctx.Player.UserID) {
		secure := ctx.LastToAct || len(ctx.OpponentsToAct) == 0 ||
			brain.IsGuaranteedWinner(ctx.Memory, winner.Combo, ctx.Player.Hand, ctx.OpponentsToAct)
		if secure {
			ctx.State = TrickTeammateWinning
		} else {
			ctx.State = TrickUndecided
		}
		return
	}
	if anyCandidate(ctx.Candidates, func(c candidate) bool { return c.Wins }) {
		ctx.State = TrickUndecided
	} else {
		ctx.State = TrickOpponentWinning
	}
}

// PointContributionStage feeds points to a secure partner, and takes an
// open trick when a cheap winner is guaranteed and points are at stake.
type PointContributionStage struct{}

func (s *PointContributionStage) Name() string { return "PointContribution" }

func (s *PointContributionStage) Apply(ctx *DecisionContext) {
	switch ctx.State {
	case TrickTeammateWinning:
		ctx.Rank("follow_feed_teammate", func(a, b candidate) bool {
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.Breaks != b.Breaks {
				return a.Breaks < b.Breaks
			}
			if a.Wins != b.Wins {
				return !a.Wins
			}
			return a.Conservation < b.Conservation
		})
	case TrickUndecided:
		contest := ctx.Style == StyleDesperate || (!ctx.IsAttacker && ctx.Pressure == PressureHigh)
		tablePoints := ctx.Trick.Points
		take := func(c candidate) bool {
			if !c.Guaranteed && !(contest && c.Wins) {
				return false
			}
			return tablePoints+c.Points > ctx.Weights.TakeTrickMinPoints
		}
		if !anyCandidate(ctx.Candidates, take) {
			return
		}
		point := "follow_take_guaranteed"
		if !anyCandidate(ctx.Candidates, func(c candidate) bool { return take(c) && c.Guaranteed }) {
			point = "follow_contest"
		}
		ctx.Rank(point, func(a, b candidate) bool {
			if take(a) != take(b) {
				return take(a)
			}
			if a.Guaranteed != b.Guaranteed {
				return a.Guaranteed
			}
			if a.Conservation != b.Conservation {
				return a.Conservation < b.Conservation
			}
			return a.Points > b.Points
		})
	}
}

// ConservationStage is the terminal stage: it gives up as little as
// possible, shedding zero-point cards first when an opponent holds the trick.
type ConservationStage struct{}

func (s *ConservationStage) Name() string { return "Conservation" }

func (s *ConservationStage) Apply(ctx *DecisionContext) {
	switch ctx.State {
	case TrickLeading:
		ctx.Rank("lead_lowest", func(a, b candidate) bool {
			if a.Conservation != b.Conservation {
				return a.Conservation < b.Conservation
			}
			return a.Points < b.Points
		})
	case TrickOpponentWinning, TrickTeammateWinning:
		ctx.Rank("follow_dispose", disposeLess)
	default:
		// An opponent still holds a trick nobody chose to take.
		if !ctx.Game.SameTeam(ctx.Trick.Winning().PlayerID, ctx.Player.UserID) {
			ctx.State = TrickOpponentWinning
			ctx.Rank("follow_dispose", disposeLess)
			return
		}
		ctx.Rank("follow_conserve", func(a, b candidate) bool {
			if a.Conservation != b.Conservation {
				return a.Conservation < b.Conservation
			}
			if a.Points != b.Points {
				return a.Points < b.Points
			}
			return a.Breaks < b.Breaks
		})
	}
}

// disposeLess sheds the fewest points, then keeps structure intact.
func disposeLess(a, b candidate) bool {
	if a.Points != b.Points {
		return a.Points < b.Points
	}
	if a.Breaks != b.Breaks {
		return a.Breaks < b.Breaks
	}
	return a.Conservation < b.Conservation
}

func anyCandidate(cs []candidate, pred func(candidate) bool) bool {
	for _, c := range cs {
		if pred(c) {
			return true
		}
	}
	return false
}
