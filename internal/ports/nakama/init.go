package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"tractor/internal/bot"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	voiceService = newVoiceServiceFromEnv(env)
	if voiceService == nil {
		logger.Warn("Voice credentials missing from env, voice tokens disabled.")
	}

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("Could not load bot identities: %v", err)
	}
	if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Error("Failed to provision bot accounts: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameTractor, NewMatch); err != nil {
		return err
	}

	logger.Info("Tractor Go module loaded.")
	return nil
}
