package nakama

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"tractor/internal/app"
	"tractor/internal/bot"
	"tractor/internal/config"
	"tractor/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []string
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages     []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	msg := sentMessage{opCode: opCode, data: append([]byte(nil), data...)}
	for _, p := range presences {
		msg.recipients = append(msg.recipients, p.GetUserId())
	}
	md.messages = append(md.messages, msg)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.messages {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

func (md *mockDispatcher) last(opCode int64) (sentMessage, bool) {
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode == opCode {
			return md.messages[i], true
		}
	}
	return sentMessage{}, false
}

// mockPresence is a connected player. Methods the handler never calls fall
// through to the nil embedded interface.
type mockPresence struct {
	runtime.Presence
	userID string
}

func (p mockPresence) GetUserId() string   { return p.userID }
func (p mockPresence) GetUsername() string { return "name-" + p.userID }

// mockMatchData is a client message from userID.
type mockMatchData struct {
	runtime.MatchData
	userID string
	opCode int64
	data   []byte
}

func (m mockMatchData) GetUserId() string { return m.userID }
func (m mockMatchData) GetOpCode() int64  { return m.opCode }
func (m mockMatchData) GetData() []byte   { return m.data }

func message(userID string, opCode int64, data []byte) runtime.MatchData {
	return mockMatchData{userID: userID, opCode: opCode, data: data}
}

func init() {
	if err := bot.LoadIdentities("test_bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

func testConfig() config.EngineConfig {
	cfg := config.Default()
	cfg.BotMinDelaySeconds = 0
	cfg.BotMaxDelaySeconds = 0
	cfg.BotAutoFillDelaySeconds = 2
	cfg.DeclarationSeconds = 0
	cfg.TurnDurationSeconds = 1
	return cfg
}

func newTestState(seed int64, humans ...string) *MatchState {
	state := newMatchState(testConfig(), noopLogger{}, rand.New(rand.NewSource(seed)))
	for i, id := range humans {
		state.Seats[i] = id
		state.Presences[id] = mockPresence{userID: id}
	}
	if len(humans) > 0 {
		state.OwnerSeat = 0
	}
	return state
}

func decodePayload(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	s := &structpb.Struct{}
	require.NoError(t, proto.Unmarshal(data, s))
	return s.AsMap()
}

func TestFindFirstHumanSeat(t *testing.T) {
	bot1 := bot.GetBotIdentity(0).UserID
	bot2 := bot.GetBotIdentity(1).UserID

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{name: "FirstHumanAfterBot", seats: []string{bot1, "user-1", "", ""}, want: 1},
		{name: "AllBots", seats: []string{bot1, bot2, "", ""}, want: -1},
		{name: "AllEmpty", seats: []string{"", "", "", ""}, want: -1},
		{name: "FirstHumanIsSeatZero", seats: []string{"user-1", bot1, "user-2", ""}, want: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, findFirstHumanSeat(test.seats))
		})
	}
}

func TestLabelJSON(t *testing.T) {
	seats := [domain.NumSeats]string{"user-1", bot.GetBotIdentity(1).UserID, "", ""}

	tests := []struct {
		name  string
		phase domain.Phase
		open  bool
	}{
		{name: "LobbyWithSeats", phase: domain.PhaseLobby, open: true},
		{name: "Playing", phase: domain.PhasePlaying, open: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			raw, err := labelJSON(domain.ComputeLabel(&seats, test.phase))
			require.NoError(t, err)

			var label map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(raw), &label))
			assert.Equal(t, test.open, label["open"])
			assert.Equal(t, "tractor", label["game"])
			assert.Equal(t, string(test.phase), label["phase"])
			assert.Equal(t, float64(2), label["seats"])
		})
	}
}

func TestEncodeEvent(t *testing.T) {
	op, data, err := encodeEvent(app.Event{
		Kind: app.EventCardPlayed,
		Payload: app.CardPlayedPayload{
			UserID:         "user-1",
			Cards:          domain.MustParseCards("10H 10H"),
			Combo:          domain.Pair,
			NextTurnUserID: "user-2",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, OpCardPlayed, op)

	payload := decodePayload(t, data)
	assert.Equal(t, "user-1", payload["userId"])
	assert.Equal(t, []interface{}{"10H", "10H"}, payload["cards"])
	assert.Equal(t, "pair", payload["combo"])
	assert.Equal(t, "user-2", payload["nextTurn"])

	_, _, err = encodeEvent(app.Event{Kind: "unknown", Payload: 42})
	assert.Error(t, err)
}

func TestCardsFromRequest(t *testing.T) {
	data, err := encodeStruct(map[string]interface{}{"cards": []interface{}{"10H", "10H", "BJ"}})
	require.NoError(t, err)

	req, err := decodeRequest(data)
	require.NoError(t, err)
	cards, err := cardsFromStruct(req, "cards")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, 0, cards[0].Deck)
	assert.Equal(t, 1, cards[1].Deck)
	assert.True(t, cards[2].IsJoker())

	_, err = cardsFromStruct(req, "missing")
	assert.Error(t, err)

	_, err = decodeRequest([]byte{0xff, 0xff})
	assert.Error(t, err)
}

func TestDispatcherSinkSkipsDisconnectedRecipients(t *testing.T) {
	dispatcher := &mockDispatcher{}
	sink := newDispatcherSink(dispatcher, map[string]runtime.Presence{"user-1": mockPresence{userID: "user-1"}})

	require.NoError(t, sink.Send(OpHandDealt, nil, []string{"bot-user-1"}))
	assert.Empty(t, dispatcher.messages)

	require.NoError(t, sink.Send(OpHandDealt, nil, []string{"user-1", "bot-user-1"}))
	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, []string{"user-1"}, dispatcher.messages[0].recipients)

	require.NoError(t, sink.Send(OpMatchState, nil, nil))
	assert.Len(t, dispatcher.messages, 2)
	assert.Nil(t, dispatcher.messages[1].recipients)
}

func TestProcessBots_FillsTableForSoloHuman(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestState(1, "user-1")
	state.LastSinglePlayerTick = 8
	state.Tick = 10

	handler.processBots(state, newDispatcherSink(dispatcher, state.Presences), noopLogger{})

	botCount := 0
	for _, seat := range state.Seats {
		if isBotUserId(seat) {
			botCount++
			assert.Contains(t, state.Bots, seat)
		}
	}
	assert.Equal(t, 3, botCount)
	assert.Equal(t, 0, state.GetOpenSeatsCount())
	assert.Zero(t, state.LastSinglePlayerTick)
	assert.Equal(t, 3, dispatcher.count(OpPlayerJoined))
	assert.Equal(t, 1, dispatcher.count(OpMatchState))
	assert.Positive(t, dispatcher.labelUpdates)

	// Bots take the level of their identity.
	assert.Equal(t, bot.BotLevelStandard, state.Bots[state.Seats[1]].Brain.Level())
}

func TestProcessBots_WaitsForAutoFillDelay(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestState(1, "user-1")
	state.Tick = 10

	handler.processBots(state, newDispatcherSink(dispatcher, state.Presences), noopLogger{})

	assert.Equal(t, 3, state.GetOpenSeatsCount())
	assert.Equal(t, int64(10), state.LastSinglePlayerTick)
	assert.Empty(t, dispatcher.messages)
}

func TestMatchLoop_PlaysWholeRound(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestState(7, "user-1")
	for i := 1; i < domain.NumSeats; i++ {
		state.Seats[i] = bot.GetBotIdentity(i).UserID
	}

	ctx := context.Background()
	tick := int64(1)
	handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, tick, state, []runtime.MatchData{message("user-1", OpStartRound, nil)})
	require.NotNil(t, state.Round)
	dealer := state.DealerSeat

	for state.RoundsPlayed == 0 && tick < 2000 {
		tick++
		handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, tick, state, nil)
	}

	require.Equal(t, 1, state.RoundsPlayed, "round did not finish")
	assert.Nil(t, state.Round)
	assert.NotEqual(t, dealer, state.DealerSeat)
	assert.Equal(t, 1, dispatcher.count(OpHandDealt), "only the human receives a hand")
	assert.Equal(t, 1, dispatcher.count(OpRoundStarted))
	assert.Equal(t, 1, dispatcher.count(OpTrumpFinalized))
	tricks := dispatcher.count(OpTrickCompleted)
	assert.Positive(t, tricks)
	assert.LessOrEqual(t, tricks, domain.HandSize)
	assert.Equal(t, domain.NumSeats*tricks, dispatcher.count(OpCardPlayed))
	cards := 0
	for _, m := range dispatcher.messages {
		if m.opCode == OpCardPlayed {
			played, ok := decodePayload(t, m.data)["cards"].([]interface{})
			require.True(t, ok)
			cards += len(played)
		}
	}
	assert.Equal(t, domain.NumSeats*domain.HandSize, cards)
	assert.Equal(t, 1, dispatcher.count(OpRoundEnded))
	var label map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(dispatcher.lastLabel), &label))
	assert.Equal(t, "lobby", label["phase"])

	ended, ok := dispatcher.last(OpRoundEnded)
	require.True(t, ok)
	payload := decodePayload(t, ended.data)
	assert.Len(t, payload["kitty"], domain.KittySize)
}

func TestHandleStartRound_RejectsNonOwner(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestState(1, "user-1", "user-2", "user-3", "user-4")

	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{message("user-2", OpStartRound, nil)})

	assert.Nil(t, state.Round)
	msg, ok := dispatcher.last(OpGameError)
	require.True(t, ok)
	assert.Equal(t, []string{"user-2"}, msg.recipients)
	assert.Equal(t, float64(errCodeForbidden), decodePayload(t, msg.data)["code"])
}

func TestHandlePlayCards_Errors(t *testing.T) {
	handler := &matchHandler{}

	t.Run("NoRound", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestState(1, "user-1", "user-2", "user-3", "user-4")
		data, err := encodeStruct(map[string]interface{}{"cards": []interface{}{"AS"}})
		require.NoError(t, err)

		handler.handlePlayCards(state, newDispatcherSink(dispatcher, state.Presences), noopLogger{}, message("user-1", OpPlayCards, data))

		msg, ok := dispatcher.last(OpGameError)
		require.True(t, ok)
		assert.Equal(t, float64(errCodeConflict), decodePayload(t, msg.data)["code"])
	})

	t.Run("IllegalFollow", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestState(1, "user-1", "user-2", "user-3", "user-4")
		sink := newDispatcherSink(dispatcher, state.Presences)
		round, _, err := state.App.StartRound(state.Seats, domain.Two, 0)
		require.NoError(t, err)
		state.Round = round
		_, err = state.App.FinalizeDeclaration(round)
		require.NoError(t, err)

		// Nobody declared, so the dealer at seat 0 leads.
		lead := round.Game.Players[0].Hand[0]
		data, err := encodeStruct(map[string]interface{}{"cards": cardCodes([]domain.Card{lead})})
		require.NoError(t, err)
		handler.handlePlayCards(state, sink, noopLogger{}, message("user-1", OpPlayCards, data))
		require.Equal(t, 1, dispatcher.count(OpCardPlayed))

		// Two cards cannot follow a single.
		follower := round.Game.Players[1].Hand[:2]
		data, err = encodeStruct(map[string]interface{}{"cards": cardCodes(follower)})
		require.NoError(t, err)
		handler.handlePlayCards(state, sink, noopLogger{}, message("user-2", OpPlayCards, data))

		msg, ok := dispatcher.last(OpGameError)
		require.True(t, ok)
		payload := decodePayload(t, msg.data)
		assert.Equal(t, float64(errCodeBadRequest), payload["code"])
		assert.Equal(t, string(domain.CodeWrongLength), payload["reason"])
		assert.Equal(t, 1, dispatcher.count(OpCardPlayed))
	})
}

func TestMatchLeave_StandInDuringRound(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestState(1, "user-1", "user-2")
	state.Seats[2] = bot.GetBotIdentity(2).UserID
	state.Seats[3] = bot.GetBotIdentity(3).UserID
	round, _, err := state.App.StartRound(state.Seats, domain.Two, 0)
	require.NoError(t, err)
	state.Round = round

	ctx := context.Background()
	leaving := mockPresence{userID: "user-2"}
	result := handler.MatchLeave(ctx, noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.Presence{leaving})
	require.NotNil(t, result)

	assert.Equal(t, "user-2", state.Seats[1], "seat is kept during a round")
	assert.True(t, state.isBotControlled("user-2"))

	_, ok, _ := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 3, state, leaving, nil)
	assert.True(t, ok)

	handler.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.Presence{leaving})
	assert.False(t, state.isBotControlled("user-2"))
	msg, found := dispatcher.last(OpHandDealt)
	require.True(t, found)
	assert.Equal(t, []string{"user-2"}, msg.recipients)
}

func TestMatchLeave_TerminatesWithoutHumans(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestState(1, "user-1")

	result := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.Presence{mockPresence{userID: "user-1"}})
	assert.Nil(t, result)
}

func TestMatchJoinAttempt_FullTable(t *testing.T) {
	handler := &matchHandler{}
	state := newTestState(1, "user-1", "user-2", "user-3", "user-4")

	_, ok, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 1, state, mockPresence{userID: "user-5"}, nil)
	assert.False(t, ok)
	assert.Equal(t, "Match full", reason)

	state.Seats[3] = bot.GetBotIdentity(3).UserID
	_, ok, _ = handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 1, state, mockPresence{userID: "user-5"}, nil)
	assert.True(t, ok, "a bot seat can be taken in the lobby")
}

func TestNextTrumpRank(t *testing.T) {
	assert.Equal(t, domain.Three, nextTrumpRank(domain.Two))
	assert.Equal(t, domain.Two, nextTrumpRank(domain.Ace))
}
