package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"tractor/internal/app"
)

// voiceService is configured from the runtime env in InitModule. A nil
// service rejects every request.
var voiceService *app.VoiceService

type voiceTokenRequest struct {
	Action  string `json:"action"`
	MatchID string `json:"matchId"`
}

type voiceTokenResponse struct {
	Token   string `json:"token"`
	Channel string `json:"channel,omitempty"`
}

// newVoiceServiceFromEnv reads tractor_voice_secret, tractor_voice_issuer
// and tractor_voice_domain. It returns nil when any of them is missing.
func newVoiceServiceFromEnv(env map[string]string) *app.VoiceService {
	secret, issuer, domain := env["tractor_voice_secret"], env["tractor_voice_issuer"], env["tractor_voice_domain"]
	if secret == "" || issuer == "" || domain == "" {
		return nil
	}
	return app.NewVoiceService(secret, issuer, domain)
}

// rpcVoiceToken signs a voice login token, or a join token for the table
// channel of matchId.
func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", errCodeUnauthenticated)
	}

	req := voiceTokenRequest{Action: app.VoiceActionLogin}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", errCodeInvalidArgument)
		}
	}

	var channel string
	switch req.Action {
	case app.VoiceActionLogin:
	case app.VoiceActionJoin:
		if req.MatchID == "" {
			return "", runtime.NewError("matchId required for join", errCodeInvalidArgument)
		}
		channel = app.TableChannel(req.MatchID)
	default:
		return "", runtime.NewError("unknown action", errCodeInvalidArgument)
	}

	token, err := voiceService.GenerateToken(userID, req.Action, channel)
	if err != nil {
		if errors.Is(err, app.ErrVoiceNotConfigured) {
			logger.Warn("Voice token requested by %s but voice is not configured.", userID)
			return "", runtime.NewError("voice not available", errCodeUnavailable)
		}
		logger.Error("Failed to generate voice token for %s: %v", userID, err)
		return "", runtime.NewError("internal error", errCodeRpcInternal)
	}

	b, _ := json.Marshal(voiceTokenResponse{Token: token, Channel: channel})
	return string(b), nil
}
