package nakama

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"tractor/internal/app"
	"tractor/internal/domain"
)

// Wire payloads are google.protobuf.Struct messages. Cards travel as their
// short codes ("10H", "SJ").

func cardCodes(cards []domain.Card) []interface{} {
	out := make([]interface{}, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// cardsFromStruct reads the card code list stored under key.
func cardsFromStruct(s *structpb.Struct, key string) ([]domain.Card, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, fmt.Errorf("missing %q", key)
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%q must be a list of card codes", key)
	}
	codes := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		codes = append(codes, item.GetStringValue())
	}
	return parseCodes(codes)
}

// decodeRequest unmarshals a client message. An empty body is an empty struct.
func decodeRequest(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if len(data) == 0 {
		return req, nil
	}
	if err := proto.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("invalid request payload: %w", err)
	}
	return req, nil
}

func encodeStruct(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func trumpFields(t domain.TrumpInfo) map[string]interface{} {
	return map[string]interface{}{
		"rank": t.TrumpRank.String(),
		"suit": t.TrumpSuit.String(),
	}
}

// encodeEvent maps an app event to its op code and wire payload.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var op int64
	var fields map[string]interface{}

	switch p := ev.Payload.(type) {
	case app.PlayerJoinedPayload:
		op = OpPlayerJoined
		fields = map[string]interface{}{"userId": p.UserID, "seat": p.Seat, "isBot": p.IsBot}
	case app.PlayerLeftPayload:
		op = OpPlayerLeft
		fields = map[string]interface{}{"userId": p.UserID, "seat": p.Seat}
	case app.HandDealtPayload:
		op = OpHandDealt
		fields = map[string]interface{}{"userId": p.UserID, "hand": cardCodes(p.Hand)}
	case app.RoundStartedPayload:
		op = OpRoundStarted
		fields = map[string]interface{}{
			"roundId":       p.RoundID,
			"dealerSeat":    p.DealerSeat,
			"attackingTeam": p.AttackingTeam.String(),
			"trumpRank":     p.TrumpRank.String(),
		}
	case app.TrumpDeclaredPayload:
		op = OpTrumpDeclared
		fields = map[string]interface{}{
			"userId": p.UserID,
			"type":   p.Type.String(),
			"suit":   p.Suit.String(),
			"cards":  cardCodes(p.Cards),
		}
	case app.TrumpFinalizedPayload:
		op = OpTrumpFinalized
		fields = map[string]interface{}{
			"trump":    trumpFields(p.TrumpInfo),
			"declarer": p.DeclarerUserID,
			"leader":   p.LeaderUserID,
		}
	case app.CardPlayedPayload:
		op = OpCardPlayed
		fields = map[string]interface{}{
			"userId":   p.UserID,
			"cards":    cardCodes(p.Cards),
			"combo":    p.Combo.String(),
			"nextTurn": p.NextTurnUserID,
		}
	case app.TrickCompletedPayload:
		op = OpTrickCompleted
		fields = map[string]interface{}{
			"trick":           p.TrickNumber,
			"winner":          p.WinnerUserID,
			"points":          p.Points,
			"attackingPoints": p.AttackingPoints,
		}
	case app.RoundEndedPayload:
		op = OpRoundEnded
		fields = map[string]interface{}{
			"attackingTeam":   p.Result.AttackingTeam.String(),
			"winningTeam":     p.Result.WinningTeam.String(),
			"attackingPoints": p.Result.AttackingPoints,
			"kittyPoints":     p.Result.KittyPoints,
			"attackersWon":    p.Result.AttackersWon,
			"kitty":           cardCodes(p.Kitty),
		}
	default:
		return 0, nil, fmt.Errorf("unsupported event %s", ev.Kind)
	}

	data, err := encodeStruct(fields)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s: %w", ev.Kind, err)
	}
	return op, data, nil
}

// labelJSON renders the match label consumed by MatchList queries.
func labelJSON(l domain.LabelPayload) (string, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"open":  l.Open,
		"game":  l.Game,
		"phase": l.Phase,
		"seats": l.Seats,
	})
	if err != nil {
		return "", err
	}
	b, err := protojson.MarshalOptions{EmitUnpopulated: true}.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
