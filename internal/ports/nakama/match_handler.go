package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"

	"tractor/internal/app"
	"tractor/internal/bot"
	"tractor/internal/config"
	"tractor/internal/domain"
	"tractor/internal/gamelog"
	"tractor/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	botIdentitiesPath = "data/bot_identities.json"
	engineConfigPath  = "data/engine.json"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats                [app.SeatsPerTable]string   `json:"seats"`                   // User IDs by seat, empty string means the seat is empty
	OwnerSeat            int                         `json:"owner_seat"`              // Seat index of the human allowed to start rounds
	DealerSeat           int                         `json:"dealer_seat"`             // Dealer of the next or current round
	TrumpRank            domain.Rank                 `json:"trump_rank"`              // Trump rank of the next or current round
	Tick                 int64                       `json:"tick"`                    // Current tick of the match, one per second
	Presences            map[string]runtime.Presence `json:"-"`                       // Connected players by user ID
	App                  *app.Service                `json:"-"`                       // Round driver
	Round                *app.Round                  `json:"-"`                       // Active round, nil in the lobby
	Config               config.EngineConfig         `json:"-"`                       // Engine configuration with env overrides applied
	Bots                 map[string]*bot.Agent       `json:"-"`                       // Bot agents, including stand-ins for disconnected humans
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // Tick when the bot to act plays
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when a single human started waiting
	DeclareUntil         int64                       `json:"declare_until"`           // Tick when the declaration window closes
	TurnDeadline         int64                       `json:"turn_deadline"`           // Tick when a human's turn is auto-played
	RoundsPlayed         int                         `json:"rounds_played"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// inRound reports whether a round is being played at the table.
func (ms *MatchState) inRound() bool {
	return ms.Round != nil && !ms.Round.Over()
}

// phase is the phase advertised in the match label.
func (ms *MatchState) phase() domain.Phase {
	if !ms.inRound() {
		return domain.PhaseLobby
	}
	return ms.Round.Game.Phase
}

// isBotControlled reports whether an agent acts for userID, either a bot or
// a stand-in for a disconnected human.
func (ms *MatchState) isBotControlled(userID string) bool {
	_, ok := ms.Bots[userID]
	return ok || isBotUserId(userID)
}

func (ms *MatchState) seatOf(userID string) int {
	for i, id := range ms.Seats {
		if id != "" && id == userID {
			return i
		}
	}
	return -1
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// newMatchState builds the lobby state for cfg. rng seeds the deal and may
// be nil.
func newMatchState(cfg config.EngineConfig, logger runtime.Logger, rng *rand.Rand) *MatchState {
	recorder := gamelog.NewRecorder(loggerWriter{logger: logger}, cfg.AppVersion)
	return &MatchState{
		Presences:  make(map[string]runtime.Presence),
		App:        app.NewService(rng, logger, recorder),
		OwnerSeat:  -1,
		DealerSeat: 0,
		TrumpRank:  domain.Two,
		Config:     cfg,
		Bots:       make(map[string]*bot.Agent),
	}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.Load(engineConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load engine config: %v", err)
	}

	cfg := config.Get()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		var errs []error
		cfg, errs = cfg.WithEnv(env)
		for _, err := range errs {
			logger.Warn("MatchInit: Ignoring env override: %v", err)
		}
	}

	state := newMatchState(cfg, logger, nil)

	label, err := labelJSON(domain.ComputeLabel(&state.Seats, domain.PhaseLobby))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second; every delay below is counted in ticks
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A seated player may always reconnect.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}

	// Otherwise an empty seat, or a bot to replace while in the lobby.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if !matchState.inRound() {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	sink := newDispatcherSink(dispatcher, matchState.Presences)

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if seat := matchState.seatOf(userID); seat >= 0 {
			if _, standIn := matchState.Bots[userID]; standIn {
				delete(matchState.Bots, userID)
				logger.Info("MatchJoin: User %s reconnected to seat %d, stand-in removed.", userID, seat)
			}
			mh.resendHand(matchState, sink, logger, userID)
			continue
		}

		if seat := domain.LowestAvailableSeat(&matchState.Seats); seat >= 0 {
			matchState.Seats[seat] = userID
			mh.broadcastEvent(matchState, sink, logger, app.Event{
				Kind:    app.EventPlayerJoined,
				Payload: app.PlayerJoinedPayload{UserID: userID, Seat: seat},
			})
			continue
		}

		assigned := false
		if !matchState.inRound() {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, userID, i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = userID
					assigned = true
					mh.broadcastEvent(matchState, sink, logger, app.Event{
						Kind:    app.EventPlayerJoined,
						Payload: app.PlayerJoinedPayload{UserID: userID, Seat: i},
					})
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, sink, logger)
	mh.broadcastMatchState(matchState, sink, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. Seats free
// up in the lobby; during a round a bot stands in until the player returns.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	sink := newDispatcherSink(dispatcher, matchState.Presences)

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		seat := matchState.seatOf(userID)
		if seat < 0 {
			continue
		}

		if matchState.inRound() {
			agent, err := bot.NewAgent(userID, p.GetUsername(), bot.BotLevelEasy, matchState.Config.AI)
			if err != nil {
				logger.Error("MatchLeave: Failed to create stand-in for %s: %v", userID, err)
				continue
			}
			matchState.Bots[userID] = agent
			logger.Info("MatchLeave: User %s left mid-round, bot stands in at seat %d.", userID, seat)
			continue
		}

		matchState.Seats[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
		mh.broadcastEvent(matchState, sink, logger, app.Event{
			Kind:    app.EventPlayerLeft,
			Payload: app.PlayerLeftPayload{UserID: userID, Seat: seat},
		})
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected humans.")
		return nil
	}

	// Ownership moves to the first connected human.
	if !mh.connected(matchState, matchState.OwnerSeat) {
		matchState.OwnerSeat = -1
		for i := range matchState.Seats {
			if isHumanSeat(matchState.Seats[:], i) && mh.connected(matchState, i) {
				matchState.OwnerSeat = i
				break
			}
		}
		logger.Debug("MatchLeave: Owner set to human seat %d.", matchState.OwnerSeat)
	}

	mh.updateLabel(matchState, sink, logger)
	mh.broadcastMatchState(matchState, sink, logger)

	return matchState
}

func (mh *matchHandler) connected(state *MatchState, seat int) bool {
	if seat < 0 || seat >= len(state.Seats) {
		return false
	}
	_, ok := state.Presences[state.Seats[seat]]
	return ok
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	sink := newDispatcherSink(dispatcher, matchState.Presences)

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartRound:
			mh.handleStartRound(matchState, sink, logger, msg)
		case OpDeclare:
			mh.handleDeclare(matchState, sink, logger, msg)
		case OpFinalizeDeclaration:
			mh.handleFinalize(matchState, sink, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(matchState, sink, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Config.BotsEnabled {
		mh.processBots(matchState, sink, logger)
	}
	mh.processDeadlines(matchState, sink, logger)

	return matchState
}

// processBots fills the lobby and lets bots declare and play.
func (mh *matchHandler) processBots(state *MatchState, sink ports.EventSink, logger runtime.Logger) {
	if !state.inRound() {
		mh.autoFill(state, sink, logger)
		return
	}

	game := state.Round.Game
	switch game.Phase {
	case domain.PhaseDeclaring:
		for _, userID := range state.Seats {
			if !state.isBotControlled(userID) {
				continue
			}
			agent := mh.agentFor(state, userID, logger)
			if agent == nil {
				continue
			}
			events, declared, err := state.App.DeclareBot(state.Round, agent.Brain, userID)
			if err != nil {
				logger.Warn("processBots: Bot %s declaration rejected: %v", userID, err)
				continue
			}
			if declared {
				mh.applyEvents(state, sink, logger, events)
			}
		}

	case domain.PhasePlaying:
		current := game.CurrentPlayer().UserID
		if !state.isBotControlled(current) {
			state.BotWaitUntil = 0
			return
		}
		if state.BotWaitUntil == 0 {
			delay := state.Config.BotMinDelaySeconds
			if spread := state.Config.BotMaxDelaySeconds - state.Config.BotMinDelaySeconds; spread > 0 {
				delay += rand.Intn(spread + 1)
			}
			state.BotWaitUntil = state.Tick + int64(delay)
			logger.Debug("processBots: Bot %s (seat %d) will act at tick %d (current %d)", current, game.CurrentSeat, state.BotWaitUntil, state.Tick)
		}
		if state.Tick < state.BotWaitUntil {
			return
		}
		state.BotWaitUntil = 0

		agent := mh.agentFor(state, current, logger)
		if agent == nil {
			return
		}
		events, err := state.App.PlayBot(state.Round, agent.Brain)
		if err != nil {
			logger.Error("processBots: Bot %s failed to play: %v", current, err)
			return
		}
		mh.applyEvents(state, sink, logger, events)
	}
}

// autoFill seats bots when a single human has waited long enough.
func (mh *matchHandler) autoFill(state *MatchState, sink ports.EventSink, logger runtime.Logger) {
	if state.GetHumanPlayerCount() != 1 {
		state.LastSinglePlayerTick = 0
		return
	}
	if state.LastSinglePlayerTick == 0 {
		state.LastSinglePlayerTick = state.Tick
		logger.Debug("processBots: Single player detected, starting auto-fill timer.")
	}
	if state.Tick-state.LastSinglePlayerTick < int64(state.Config.BotAutoFillDelaySeconds) {
		return
	}

	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		state.Seats[i] = identity.UserID

		agent, err := bot.NewAgent(identity.UserID, identity.DisplayName, identity.Level(), state.Config.AI)
		if err != nil {
			logger.Error("Failed to create bot agent for %s: %v", identity.UserID, err)
		} else {
			state.Bots[identity.UserID] = agent
		}

		logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, identity.UserID, i)
		mh.broadcastEvent(state, sink, logger, app.Event{
			Kind:    app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{UserID: identity.UserID, Seat: i, IsBot: true},
		})
		added = true
	}
	if added {
		mh.updateLabel(state, sink, logger)
		mh.broadcastMatchState(state, sink, logger)
	}
	state.LastSinglePlayerTick = 0
}

// agentFor returns the agent acting for userID, creating one at the
// configured default level when it is missing.
func (mh *matchHandler) agentFor(state *MatchState, userID string, logger runtime.Logger) *bot.Agent {
	if agent, ok := state.Bots[userID]; ok {
		return agent
	}
	level := bot.BotLevelStandard
	if identity, ok := bot.GetBotConfig(userID); ok {
		level = identity.Level()
	} else if parsed, err := bot.ParseBotLevel(state.Config.DefaultBotLevel); err == nil {
		level = parsed
	}
	agent, err := bot.NewAgent(userID, bot.GetBotDisplayName(userID), level, state.Config.AI)
	if err != nil {
		logger.Error("processBots: Failed to create fallback agent: %v", err)
		return nil
	}
	state.Bots[userID] = agent
	return agent
}

// processDeadlines closes the declaration window and auto-plays for humans
// whose turn timed out.
func (mh *matchHandler) processDeadlines(state *MatchState, sink ports.EventSink, logger runtime.Logger) {
	if !state.inRound() {
		return
	}
	switch state.Round.Game.Phase {
	case domain.PhaseDeclaring:
		if state.Tick < state.DeclareUntil {
			return
		}
		events, err := state.App.FinalizeDeclaration(state.Round)
		if err != nil {
			logger.Error("processDeadlines: Failed to finalize declaration: %v", err)
			return
		}
		mh.applyEvents(state, sink, logger, events)

	case domain.PhasePlaying:
		if state.TurnDeadline == 0 || state.Tick < state.TurnDeadline {
			return
		}
		current := state.Round.Game.CurrentPlayer().UserID
		if state.isBotControlled(current) {
			return
		}
		autoplay, err := bot.NewBrain(bot.BotLevelEasy, nil)
		if err != nil {
			logger.Error("processDeadlines: %v", err)
			return
		}
		logger.Info("processDeadlines: Turn timed out for %s, auto-playing.", current)
		events, err := state.App.PlayBot(state.Round, autoplay)
		if err != nil {
			logger.Error("processDeadlines: Auto-play for %s failed: %v", current, err)
			return
		}
		mh.applyEvents(state, sink, logger, events)
	}
}

func (mh *matchHandler) handleStartRound(state *MatchState, sink ports.EventSink, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartRound: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if _, err := decodeRequest(msg.GetData()); err != nil {
		logger.Warn("StartRound: %v", err)
		mh.sendError(state, sink, logger, senderID, err)
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartRound: User %s tried to start a round but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, sink, logger, senderID, errNotOwner)
		return
	}
	if state.inRound() {
		mh.sendError(state, sink, logger, senderID, errRoundInProgress)
		return
	}

	round, events, err := state.App.StartRound(state.Seats, state.TrumpRank, state.DealerSeat)
	if err != nil {
		logger.Warn("StartRound: Failed to start round: %v", err)
		mh.sendError(state, sink, logger, senderID, err)
		return
	}

	state.Round = round
	state.DeclareUntil = state.Tick + int64(state.Config.DeclarationSeconds)
	state.TurnDeadline = 0
	state.BotWaitUntil = 0

	mh.applyEvents(state, sink, logger, events)
	logger.Info("StartRound: Round %s started, dealer seat %d, trump rank %s.", round.ID, state.DealerSeat, state.TrumpRank)
}

func (mh *matchHandler) handleDeclare(state *MatchState, sink ports.EventSink, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if !state.inRound() {
		mh.sendError(state, sink, logger, senderID, app.ErrNotDeclaring)
		return
	}

	req, err := decodeRequest(msg.GetData())
	if err != nil {
		mh.sendError(state, sink, logger, senderID, err)
		return
	}
	cards, err := cardsFromStruct(req, "cards")
	if err != nil {
		mh.sendError(state, sink, logger, senderID, err)
		return
	}

	events, err := state.App.Declare(state.Round, senderID, cards)
	if err != nil {
		logger.Warn("handleDeclare: User %s failed to declare %s: %v", senderID, domain.FormatCards(cards), err)
		mh.sendError(state, sink, logger, senderID, err)
		return
	}
	mh.applyEvents(state, sink, logger, events)
}

// handleFinalize lets the owner close the declaration window early.
func (mh *matchHandler) handleFinalize(state *MatchState, sink ports.EventSink, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) != state.OwnerSeat {
		mh.sendError(state, sink, logger, senderID, errNotOwner)
		return
	}
	if !state.inRound() {
		mh.sendError(state, sink, logger, senderID, app.ErrNotDeclaring)
		return
	}

	events, err := state.App.FinalizeDeclaration(state.Round)
	if err != nil {
		mh.sendError(state, sink, logger, senderID, err)
		return
	}
	mh.applyEvents(state, sink, logger, events)
}

func (mh *matchHandler) handlePlayCards(state *MatchState, sink ports.EventSink, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if !state.inRound() {
		logger.Warn("handlePlayCards: Round not started.")
		mh.sendError(state, sink, logger, senderID, app.ErrNotPlaying)
		return
	}

	req, err := decodeRequest(msg.GetData())
	if err != nil {
		mh.sendError(state, sink, logger, senderID, err)
		return
	}
	cards, err := cardsFromStruct(req, "cards")
	if err != nil {
		mh.sendError(state, sink, logger, senderID, err)
		return
	}

	events, err := state.App.PlayCards(state.Round, senderID, cards)
	if err != nil {
		var hand []domain.Card
		if p := state.Round.Game.PlayerByID(senderID); p != nil {
			hand = p.Hand
		}
		logger.Warn("handlePlayCards: User %s failed to play %s: %v. Hand: %s", senderID, domain.FormatCards(cards), err, domain.FormatCards(hand))
		mh.sendError(state, sink, logger, senderID, err)
		return
	}
	mh.applyEvents(state, sink, logger, events)
}

// applyEvents broadcasts events and advances table state: turn timers while
// the round runs, dealer rotation once it ends.
func (mh *matchHandler) applyEvents(state *MatchState, sink ports.EventSink, logger runtime.Logger, events []app.Event) {
	labelChanged := false
	for _, ev := range events {
		mh.broadcastEvent(state, sink, logger, ev)
		switch ev.Kind {
		case app.EventRoundStarted, app.EventTrumpFinalized:
			labelChanged = true
		case app.EventRoundEnded:
			p := ev.Payload.(app.RoundEndedPayload)
			mh.finishRound(state, logger, p.Result)
			labelChanged = true
		}
	}

	state.TurnDeadline = 0
	if state.inRound() && state.Round.Game.Phase == domain.PhasePlaying {
		if current := state.Round.Game.CurrentPlayer().UserID; !state.isBotControlled(current) && state.Config.TurnDurationSeconds > 0 {
			state.TurnDeadline = state.Tick + int64(state.Config.TurnDurationSeconds)
		}
	}

	if labelChanged {
		mh.updateLabel(state, sink, logger)
	}
}

// finishRound sets up the next deal. Defenders who hold the table keep the
// deal in their partnership and go up one rank; otherwise the deal passes to
// the attackers on the dealer's left.
func (mh *matchHandler) finishRound(state *MatchState, logger runtime.Logger, result domain.RoundResult) {
	state.RoundsPlayed++
	if result.AttackersWon {
		state.DealerSeat = domain.NextSeat(state.DealerSeat)
	} else {
		state.DealerSeat = domain.PartnerSeat(state.DealerSeat)
		state.TrumpRank = nextTrumpRank(state.TrumpRank)
	}
	state.Round = nil
	state.TurnDeadline = 0
	state.BotWaitUntil = 0

	// Stand-ins for players who never came back are no longer needed.
	for id := range state.Bots {
		if !isBotUserId(id) {
			delete(state.Bots, id)
		}
	}

	logger.Info("finishRound: Round %d over (attackers won: %t), next dealer seat %d, trump rank %s.", state.RoundsPlayed, result.AttackersWon, state.DealerSeat, state.TrumpRank)
}

func nextTrumpRank(r domain.Rank) domain.Rank {
	if r >= domain.Ace {
		return domain.Two
	}
	return r + 1
}

func (mh *matchHandler) resendHand(state *MatchState, sink ports.EventSink, logger runtime.Logger, userID string) {
	if !state.inRound() {
		return
	}
	p := state.Round.Game.PlayerByID(userID)
	if p == nil {
		return
	}
	mh.broadcastEvent(state, sink, logger, app.Event{
		Kind:       app.EventHandDealt,
		Payload:    app.HandDealtPayload{UserID: userID, Hand: p.Hand},
		Recipients: []string{userID},
	})
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, sink ports.EventSink, logger runtime.Logger) {
	players := make([]interface{}, 0, len(state.Seats))
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			displayName = name
		}

		cardsRemaining := 0
		if state.inRound() {
			if p := state.Round.Game.Players[i]; p != nil {
				cardsRemaining = len(p.Hand)
			}
		}

		players = append(players, map[string]interface{}{
			"userId":         userId,
			"seat":           i,
			"isOwner":        i == state.OwnerSeat,
			"isBot":          isBotUserId(userId),
			"cardsRemaining": cardsRemaining,
			"displayName":    displayName,
		})
	}

	seats := make([]interface{}, len(state.Seats))
	for i, id := range state.Seats {
		seats[i] = id
	}

	data, err := encodeStruct(map[string]interface{}{
		"seats":      seats,
		"ownerSeat":  state.OwnerSeat,
		"dealerSeat": state.DealerSeat,
		"trumpRank":  state.TrumpRank.String(),
		"phase":      string(state.phase()),
		"tick":       state.Tick,
		"players":    players,
	})
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal snapshot: %v", err)
		return
	}
	if err := sink.Send(OpMatchState, data, nil); err != nil {
		logger.Error("broadcastMatchState: %v", err)
	}
}

// broadcastEvent encodes an app event and sends it to its recipients.
func (mh *matchHandler) broadcastEvent(state *MatchState, sink ports.EventSink, logger runtime.Logger, ev app.Event) {
	opCode, data, err := encodeEvent(ev)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}
	if err := sink.Send(opCode, data, ev.Recipients); err != nil {
		logger.Error("Failed to send event %v: %v", ev.Kind, err)
	}
}

var (
	errNotOwner        = errors.New("only the table owner can do this")
	errRoundInProgress = errors.New("a round is already in progress")
)

// errorCode maps a use-case error to the code sent to the client.
func errorCode(err error) int {
	switch {
	case errors.Is(err, errNotOwner), errors.Is(err, app.ErrUnknownPlayer):
		return errCodeForbidden
	case errors.Is(err, app.ErrNotYourTurn), errors.Is(err, app.ErrNotPlaying),
		errors.Is(err, app.ErrNotDeclaring), errors.Is(err, domain.ErrDeclarationClosed),
		errors.Is(err, errRoundInProgress), errors.Is(err, app.ErrSeatEmpty):
		return errCodeConflict
	case errors.Is(err, bot.ErrNoLegalMove):
		return errCodeInternal
	}
	return errCodeBadRequest
}

// sendError sends a game error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, sink ports.EventSink, logger runtime.Logger, userID string, cause error) {
	if _, ok := state.Presences[userID]; !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	data, err := encodeStruct(map[string]interface{}{
		"code":    errorCode(cause),
		"reason":  string(domain.CodeOf(cause)),
		"message": cause.Error(),
	})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}
	if err := sink.Send(OpGameError, data, []string{userID}); err != nil {
		logger.Error("Failed to send game error: %v", err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, sink ports.EventSink, logger runtime.Logger) {
	label, err := labelJSON(domain.ComputeLabel(&state.Seats, state.phase()))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := sink.UpdateLabel(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
