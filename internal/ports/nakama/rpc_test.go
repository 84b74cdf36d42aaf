package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tractor/internal/app"
	"tractor/internal/domain"
)

func TestRpcValidatePlay(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		legal    bool
		canBeat  bool
		code     string
		combo    string
		rpcError bool
	}{
		{
			name:    "Lead",
			payload: `{"trumpRank":"2","trumpSuit":"H","hand":["KH","3S"],"proposed":["KH"]}`,
			legal:   true,
			canBeat: true,
			combo:   "single",
		},
		{
			name:    "MustFollowSuit",
			payload: `{"trumpRank":"2","trumpSuit":"H","hand":["KH","3S"],"trick":[{"userId":"p0","cards":["AS"]}],"proposed":["KH"]}`,
			code:    string(domain.CodeMustFollowSuit),
			combo:   "single",
		},
		{
			name:    "FollowsLow",
			payload: `{"trumpRank":"2","trumpSuit":"H","hand":["KH","3S"],"trick":[{"userId":"p0","cards":["AS"]}],"proposed":["3S"]}`,
			legal:   true,
			combo:   "single",
		},
		{
			name:    "TrumpsWhenVoid",
			payload: `{"trumpRank":"2","trumpSuit":"H","hand":["KH","3D"],"trick":[{"userId":"p0","cards":["AS"]}],"proposed":["KH"]}`,
			legal:   true,
			canBeat: true,
			combo:   "single",
		},
		{name: "BadPayload", payload: `{`, rpcError: true},
		{name: "BadCard", payload: `{"hand":["ZZ"],"proposed":["ZZ"]}`, rpcError: true},
		{name: "JokerTrumpRank", payload: `{"trumpRank":"BJ","hand":["3S"],"proposed":["3S"]}`, rpcError: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			raw, err := rpcValidatePlay(context.Background(), noopLogger{}, nil, nil, test.payload)
			if test.rpcError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var resp validatePlayResponse
			require.NoError(t, json.Unmarshal([]byte(raw), &resp))
			assert.Equal(t, test.legal, resp.IsLegal)
			assert.Equal(t, test.canBeat, resp.CanBeat)
			assert.Equal(t, test.code, resp.Code)
			assert.Equal(t, test.combo, resp.Combo)
		})
	}
}

func TestRpcVoiceToken(t *testing.T) {
	t.Cleanup(func() { voiceService = nil })
	voiceService = newVoiceServiceFromEnv(map[string]string{
		"tractor_voice_secret": "test-secret",
		"tractor_voice_issuer": "issuer",
		"tractor_voice_domain": "example.com",
	})
	require.NotNil(t, voiceService)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user123")

	raw, err := rpcVoiceToken(ctx, noopLogger{}, nil, nil, `{"action":"join","matchId":"m1"}`)
	require.NoError(t, err)

	var resp voiceTokenResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.Equal(t, app.TableChannel("m1"), resp.Channel)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user123", claims["sub"])
	assert.Equal(t, app.VoiceActionJoin, claims["vxa"])
	assert.Equal(t, "sip:confctl-g-tractor-m1@example.com", claims["t"])

	t.Run("LoginByDefault", func(t *testing.T) {
		raw, err := rpcVoiceToken(ctx, noopLogger{}, nil, nil, "")
		require.NoError(t, err)
		var resp voiceTokenResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Empty(t, resp.Channel)
	})

	t.Run("Rejects", func(t *testing.T) {
		_, err := rpcVoiceToken(context.Background(), noopLogger{}, nil, nil, `{"action":"login"}`)
		assert.Error(t, err, "anonymous caller")

		_, err = rpcVoiceToken(ctx, noopLogger{}, nil, nil, `{"action":"join"}`)
		assert.Error(t, err, "join without match")

		_, err = rpcVoiceToken(ctx, noopLogger{}, nil, nil, `{"action":"shout"}`)
		assert.Error(t, err)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		voiceService = newVoiceServiceFromEnv(map[string]string{"tractor_voice_secret": "s"})
		assert.Nil(t, voiceService)
		_, err := rpcVoiceToken(ctx, noopLogger{}, nil, nil, "")
		assert.Error(t, err)
	})
}
