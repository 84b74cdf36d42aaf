package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"tractor/internal/bot"
	"tractor/internal/bot/brain"
	"tractor/internal/domain"
	"tractor/internal/gamelog"
)

// Service contains Tractor use-cases operating on domain state.
type Service struct {
	rng      *rand.Rand
	logger   runtime.Logger
	recorder *gamelog.Recorder
}

// NewService constructs a Service. A nil rng is replaced by a time-seeded
// source, a nil logger discards output and a nil recorder records nothing.
func NewService(rng *rand.Rand, logger runtime.Logger, recorder *gamelog.Recorder) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = gamelog.NewJSONLogger(io.Discard, slog.LevelError)
	}
	return &Service{rng: rng, logger: logger, recorder: recorder}
}

var (
	ErrNotDeclaring     = errors.New("round not in declaring phase")
	ErrNotPlaying       = errors.New("round not in playing phase")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrUnknownPlayer    = errors.New("player not found")
	ErrSeatEmpty        = errors.New("every seat must be filled")
	ErrDuplicatePlayer  = errors.New("player seated twice")
	ErrInvalidTrumpRank = errors.New("trump rank must be a standard rank")
	ErrInvalidDealer    = errors.New("dealer seat out of range")
	ErrCardsNotHeld     = errors.New("cards not in hand")
)

// StartRound deals a new round. seats lists the players in seat order; the
// team not holding the dealer seat attacks.
func (s *Service) StartRound(seats [SeatsPerTable]string, trumpRank domain.Rank, dealerSeat int) (*Round, []Event, error) {
	if !trumpRank.IsStandard() {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidTrumpRank, trumpRank)
	}
	if dealerSeat < 0 || dealerSeat >= domain.NumSeats {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidDealer, dealerSeat)
	}
	seen := make(map[string]bool, len(seats))
	for i, id := range seats {
		if id == "" {
			return nil, nil, fmt.Errorf("%w: seat %d", ErrSeatEmpty, i)
		}
		if seen[id] {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = true
	}

	deck := domain.ShuffleDeck(domain.NewDoubleDeck(), s.rng)
	hands, kitty := domain.Deal(deck)

	trump := domain.TrumpInfo{TrumpRank: trumpRank}
	game := &domain.Game{
		ID:            gamelog.NewGameID(),
		Phase:         domain.PhaseDeclaring,
		DealerSeat:    dealerSeat,
		AttackingTeam: domain.TeamForSeat(dealerSeat).Other(),
		TrumpInfo:     trump,
		Declarations:  domain.NewDeclarationState(trumpRank),
		CurrentSeat:   dealerSeat,
		Kitty:         kitty,
	}

	events := make([]Event, 0, domain.NumSeats+1)
	for seat, id := range seats {
		pl := &domain.Player{
			UserID: id,
			Seat:   seat,
			Team:   domain.TeamForSeat(seat),
			Hand:   hands[seat],
		}
		domain.SortByTractorRank(pl.Hand, trump)
		game.Players[seat] = pl

		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: id, Hand: pl.Hand},
			Recipients: []string{id},
		})
	}

	round := &Round{ID: game.ID, Game: game, Memory: brain.NewMemory(trump)}
	events = append(events, Event{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			RoundID:       round.ID,
			DealerSeat:    dealerSeat,
			AttackingTeam: game.AttackingTeam,
			TrumpRank:     trumpRank,
		},
	})

	s.record(game, gamelog.EventGameInitialized, map[string]any{
		"attackingTeam": game.AttackingTeam.String(),
		"defendingTeam": game.AttackingTeam.Other().String(),
		"trumpInfo":     trumpData(trump),
		"dealerSeat":    dealerSeat,
	}, "")
	s.logger.WithFields(map[string]interface{}{
		"round_id":  round.ID,
		"dealer":    dealerSeat,
		"trumpRank": trumpRank.String(),
	}).Info("round started")

	return round, events, nil
}

// Declare submits a trump declaration for playerID with the cards shown.
func (s *Service) Declare(r *Round, playerID string, cards []domain.Card) ([]Event, error) {
	game := r.Game
	if game.Phase != domain.PhaseDeclaring {
		return nil, ErrNotDeclaring
	}
	pl := game.PlayerByID(playerID)
	if pl == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if !domain.ContainsAll(pl.Hand, cards) {
		return nil, fmt.Errorf("%w: %s", ErrCardsNotHeld, domain.FormatCards(cards))
	}

	d, err := domain.NewDeclaration(playerID, cards, game.Declarations.TrumpRank)
	if err != nil {
		return nil, err
	}
	if err := game.Declarations.Declare(d); err != nil {
		return nil, err
	}

	s.record(game, gamelog.EventTrumpDeclared, map[string]any{
		"player": playerID,
		"type":   d.Type.String(),
		"suit":   d.Suit.String(),
		"cards":  domain.FormatCards(d.Cards),
	}, "")
	return []Event{{
		Kind:    EventTrumpDeclared,
		Payload: TrumpDeclaredPayload{UserID: playerID, Type: d.Type, Suit: d.Suit, Cards: d.Cards},
	}}, nil
}

// FinalizeDeclaration closes bidding, fixes trump and hands the lead to the
// declarer, or to the dealer when nobody declared.
func (s *Service) FinalizeDeclaration(r *Round) ([]Event, error) {
	game := r.Game
	if game.Phase != domain.PhaseDeclaring {
		return nil, ErrNotDeclaring
	}
	info, err := game.Declarations.Finalize()
	if err != nil {
		return nil, err
	}

	game.TrumpInfo = info
	r.Memory = brain.NewMemory(info)
	for _, pl := range game.Players {
		domain.SortByTractorRank(pl.Hand, info)
	}

	leader := game.DealerSeat
	declarer := ""
	if cur := game.Declarations.Current; cur != nil {
		declarer = cur.PlayerID
		leader = game.PlayerByID(declarer).Seat
	}
	game.Phase = domain.PhasePlaying
	game.CurrentSeat = leader
	game.CurrentTrick = nil

	s.record(game, gamelog.EventTrumpFinalized, map[string]any{
		"trumpInfo": trumpData(info),
		"declarer":  declarer,
		"leader":    game.Players[leader].UserID,
	}, "")
	return []Event{{
		Kind: EventTrumpFinalized,
		Payload: TrumpFinalizedPayload{
			TrumpInfo:      info,
			DeclarerUserID: declarer,
			LeaderUserID:   game.Players[leader].UserID,
		},
	}}, nil
}

// PlayCards validates and applies a play by the seat to act. Completing the
// fourth play closes the trick, and emptying the last hand scores the round.
func (s *Service) PlayCards(r *Round, playerID string, cards []domain.Card) ([]Event, error) {
	game := r.Game
	if game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	pl := game.PlayerByID(playerID)
	if pl == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if game.CurrentPlayer().UserID != playerID {
		return nil, fmt.Errorf("%w: %s", ErrNotYourTurn, playerID)
	}

	trump := game.TrumpInfo
	if game.CurrentTrick == nil {
		if err := domain.ValidateLead(cards, pl.Hand, trump); err != nil {
			return nil, fmt.Errorf("lead by %s: %w", playerID, err)
		}
		game.CurrentTrick = domain.NewTrick(playerID)
	} else if err := domain.ValidatePlay(cards, game.CurrentTrick.Lead(), pl.Hand, trump); err != nil {
		return nil, fmt.Errorf("play by %s: %w", playerID, err)
	}

	play, err := game.CurrentTrick.AddPlay(playerID, cards, trump)
	if err != nil {
		return nil, err
	}
	pl.Hand = domain.RemoveCards(pl.Hand, cards)

	var closing []Event
	if game.CurrentTrick.Complete() {
		closing = append(closing, s.closeTrick(r))
		if game.Phase == domain.PhaseEnded {
			closing = append(closing, s.endRound(r))
		}
	} else {
		game.CurrentSeat = domain.NextSeat(game.CurrentSeat)
	}

	payload := CardPlayedPayload{UserID: playerID, Cards: play.Cards, Combo: play.Combo.Type}
	if game.Phase == domain.PhasePlaying {
		payload.NextTurnUserID = game.CurrentPlayer().UserID
	}
	return append([]Event{{Kind: EventCardPlayed, Payload: payload}}, closing...), nil
}

// closeTrick archives the complete current trick and hands the lead to its
// winner.
func (s *Service) closeTrick(r *Round) Event {
	game := r.Game
	closed := game.CurrentTrick.Snapshot()
	game.Tricks = append(game.Tricks, closed)
	game.CurrentTrick = nil
	r.Memory = brain.RecordTrick(r.Memory, closed)

	if game.IsAttacker(closed.WinnerID) {
		game.AttackingPoints += closed.Points
	}
	winner := game.PlayerByID(closed.WinnerID)
	game.CurrentSeat = winner.Seat

	if len(winner.Hand) == 0 {
		game.Phase = domain.PhaseEnded
	}

	s.record(game, gamelog.EventTrickCompleted, map[string]any{
		"trickNumber":     len(game.Tricks),
		"winningPlayer":   closed.WinnerID,
		"points":          closed.Points,
		"attackingPoints": game.AttackingPoints,
	}, "")
	return Event{
		Kind: EventTrickCompleted,
		Payload: TrickCompletedPayload{
			TrickNumber:     len(game.Tricks),
			WinnerUserID:    closed.WinnerID,
			Points:          closed.Points,
			AttackingPoints: game.AttackingPoints,
		},
	}
}

// endRound scores the kitty and the round. Attackers collect the kitty,
// doubled, only when they took the last trick.
func (s *Service) endRound(r *Round) Event {
	game := r.Game
	last := game.Tricks[len(game.Tricks)-1]
	kittyPoints := domain.TotalPoints(game.Kitty)

	bonus := 0
	if game.IsAttacker(last.WinnerID) {
		bonus = kittyPoints * domain.KittyMultiplier
		game.AttackingPoints += bonus
	}
	s.record(game, gamelog.EventKittyScored, map[string]any{
		"kittyPoints": kittyPoints,
		"awarded":     bonus,
		"lastTrickBy": last.WinnerID,
	}, "")

	result := domain.RoundResult{
		AttackingTeam:   game.AttackingTeam,
		AttackingPoints: game.AttackingPoints,
		KittyPoints:     bonus,
		AttackersWon:    game.AttackingPoints >= domain.AttackerWinThreshold,
	}
	result.WinningTeam = game.AttackingTeam
	victory := gamelog.EventAttackingTeamVictory
	if !result.AttackersWon {
		result.WinningTeam = game.AttackingTeam.Other()
		victory = gamelog.EventDefendingTeamVictory
	}
	game.Result = &result

	s.record(game, victory, map[string]any{"attackingPoints": game.AttackingPoints}, "")
	s.record(game, gamelog.EventGameOver, map[string]any{"winner": result.WinningTeam.String()}, "")
	s.recorder.Close(game.ID)

	s.logger.WithFields(map[string]interface{}{
		"round_id":         game.ID,
		"attacking_points": game.AttackingPoints,
		"winner":           result.WinningTeam.String(),
	}).Info("round ended")

	return Event{Kind: EventRoundEnded, Payload: RoundEndedPayload{Result: result, Kitty: game.Kitty}}
}

// PlayBot lets b choose the move for the seat to act and applies it.
func (s *Service) PlayBot(r *Round, b bot.Brain) ([]Event, error) {
	game := r.Game
	if game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	actor := game.CurrentPlayer().UserID
	move, err := b.CalculateMove(game, r.Memory, actor)
	if err != nil {
		s.logger.WithField("player", actor).Error("bot failed to choose a move: %v", err)
		return nil, err
	}

	event := gamelog.EventAIFollowingDecision
	if game.CurrentTrick == nil {
		event = gamelog.EventAILeadingDecision
	}
	d := move.Decision
	s.record(game, event, map[string]any{
		"player":        actor,
		"level":         b.Level().String(),
		"decisionPoint": d.DecisionPoint,
		"decision":      domain.FormatCards(move.Cards),
		"context": map[string]any{
			"isAttackingTeam": d.IsAttackingTeam,
			"trickPosition":   d.TrickPosition,
			"pointPressure":   d.PointPressure.String(),
			"style":           d.Style.String(),
		},
	}, "")

	return s.PlayCards(r, actor, move.Cards)
}

// DeclareBot offers playerID's brain a chance to declare. It reports whether
// a declaration was made.
func (s *Service) DeclareBot(r *Round, b bot.Brain, playerID string) ([]Event, bool, error) {
	if r.Game.Phase != domain.PhaseDeclaring {
		return nil, false, ErrNotDeclaring
	}
	cards, ok := b.ChooseDeclaration(r.Game, playerID)
	if !ok {
		return nil, false, nil
	}
	events, err := s.Declare(r, playerID, cards)
	if err != nil {
		return nil, false, err
	}
	return events, true, nil
}

func (s *Service) record(game *domain.Game, event string, data map[string]any, message string) {
	if err := s.recorder.Info(game.ID, event, data, message); err != nil {
		s.logger.Warn("game log write failed: %v", err)
	}
}

func trumpData(t domain.TrumpInfo) map[string]any {
	return map[string]any{
		"trumpRank": t.TrumpRank.String(),
		"trumpSuit": t.TrumpSuit.String(),
	}
}
