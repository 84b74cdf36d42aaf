package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"tractor/internal/domain"
)

type validatePlayRequest struct {
	TrumpRank string            `json:"trumpRank"`
	TrumpSuit string            `json:"trumpSuit"`
	Hand      []string          `json:"hand"`
	Trick     []trickPlayRecord `json:"trick"`
	Proposed  []string          `json:"proposed"`
}

type trickPlayRecord struct {
	UserID string   `json:"userId"`
	Cards  []string `json:"cards"`
}

type validatePlayResponse struct {
	IsLegal bool   `json:"isLegal"`
	CanBeat bool   `json:"canBeat"`
	Reason  string `json:"reason"`
	Code    string `json:"code,omitempty"`
	Combo   string `json:"combo"`
}

// rpcValidatePlay answers whether a proposed play is legal against a trick
// in progress and whether it would take the lead. Clients use it to preview
// a selection before sending it to the match.
func rpcValidatePlay(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req validatePlayRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", errCodeInvalidArgument)
	}

	trump, err := parseTrump(req.TrumpRank, req.TrumpSuit)
	if err != nil {
		return "", runtime.NewError(err.Error(), errCodeInvalidArgument)
	}
	hand, err := parseCodes(req.Hand)
	if err != nil {
		return "", runtime.NewError(err.Error(), errCodeInvalidArgument)
	}
	proposed, err := parseCodes(req.Proposed)
	if err != nil {
		return "", runtime.NewError(err.Error(), errCodeInvalidArgument)
	}

	var trick *domain.Trick
	if len(req.Trick) > 0 {
		trick = domain.NewTrick(req.Trick[0].UserID)
		for _, p := range req.Trick {
			cards, err := parseCodes(p.Cards)
			if err != nil {
				return "", runtime.NewError(err.Error(), errCodeInvalidArgument)
			}
			if _, err := trick.AddPlay(p.UserID, cards, trump); err != nil {
				return "", runtime.NewError(err.Error(), errCodeInvalidArgument)
			}
		}
	}

	eval := domain.EvaluateTrickPlay(proposed, trick, trump, hand)
	resp := validatePlayResponse{
		IsLegal: eval.IsLegal,
		CanBeat: eval.CanBeat,
		Reason:  eval.Reason,
		Code:    string(domain.CodeOf(eval.Validity)),
		Combo:   eval.Combo.Type.String(),
	}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

func parseCodes(codes []string) ([]domain.Card, error) {
	return domain.ParseCards(strings.Join(codes, " "))
}

func parseTrump(rank, suit string) (domain.TrumpInfo, error) {
	trump := domain.TrumpInfo{TrumpRank: domain.Two}
	if rank != "" {
		r, err := domain.ParseRank(rank)
		if err != nil {
			return trump, err
		}
		if !r.IsStandard() {
			return trump, fmt.Errorf("trump rank must be a standard rank, got %q", rank)
		}
		trump.TrumpRank = r
	}
	if suit != "" && suit != "-" {
		s, err := domain.ParseSuit(suit)
		if err != nil {
			return trump, err
		}
		trump.TrumpSuit = s
	}
	return trump, nil
}
