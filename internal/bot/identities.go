package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one seat-filling bot account.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "standard", "expert"
}

var (
	botIdentities []BotIdentity
	botsByID      map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities reads the bot pool once. Every difficulty must name a
// known level.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &botIdentities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		botsByID = make(map[string]BotIdentity, len(botIdentities))
		for _, identity := range botIdentities {
			if _, err := ParseBotLevel(identity.Difficulty); err != nil {
				loadErr = fmt.Errorf("bot %s: %w", identity.Username, err)
				return
			}
			if identity.UserID != "" {
				botsByID[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// Level resolves the identity's difficulty. Unknown names fall back to the
// standard level.
func (b BotIdentity) Level() BotLevel {
	level, err := ParseBotLevel(b.Difficulty)
	if err != nil {
		return BotLevelStandard
	}
	return level
}

// Name is the display name, or the username when none is set.
func (b BotIdentity) Name() string {
	if b.DisplayName != "" {
		return b.DisplayName
	}
	return b.Username
}

// ProvisionBots creates a Nakama account for every identity with a device ID
// and tags it as a tractor bot.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	if loadErr != nil {
		return loadErr
	}
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":     true,
				"difficulty": identity.Level().String(),
				"game":       "tractor",
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}

			botsByID[userID] = *identity
			logger.WithFields(map[string]interface{}{
				"bot_id": userID,
				"level":  identity.Level().String(),
			}).Info("ProvisionBots: bot %s is ready", identity.Name())
		}
	})
	return nil
}

// GetBotConfig returns the identity of a provisioned bot.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identity, ok := botsByID[userID]
	return identity, ok
}

// GetBotDisplayName returns the name shown for a bot, or "" for a human.
func GetBotDisplayName(userID string) string {
	return botsByID[userID].Name()
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot_%d", index),
			DisplayName: fmt.Sprintf("Tractor Bot %d", index),
			Difficulty:  BotLevelStandard.String(),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	_, ok := botsByID[userID]
	return ok
}
