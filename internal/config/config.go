package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// AITuning overrides the bot thresholds. Zero values keep the built-in
// tuning.
type AITuning struct {
	DesperateDeficit   int     `json:"desperate_deficit"`
	DesperateProgress  float64 `json:"desperate_progress"`
	TakeTrickMinPoints int     `json:"take_trick_min_points"`
}

type EngineConfig struct {
	AppVersion          string `json:"app_version"`
	TurnDurationSeconds int    `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before filling empty seats with bots.
	BotAutoFillDelaySeconds int    `json:"bot_auto_fill_delay_seconds"`
	BotsEnabled             bool   `json:"bots_enabled"`
	BotMinDelaySeconds      int    `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds      int    `json:"bot_max_delay_seconds"`
	DefaultBotLevel         string `json:"default_bot_level"`
	// DeclarationSeconds is how long the bidding window stays open after the deal.
	DeclarationSeconds int      `json:"declaration_seconds"`
	AI                 AITuning `json:"ai"`
}

// Default returns the built-in configuration.
func Default() EngineConfig {
	return EngineConfig{
		AppVersion:              "dev",
		TurnDurationSeconds:     20,
		BotAutoFillDelaySeconds: 10,
		BotsEnabled:             true,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		DefaultBotLevel:         "standard",
		DeclarationSeconds:      10,
	}
}

var (
	cfg      *EngineConfig
	loadOnce sync.Once
	loadErr  error
)

// Load reads the engine configuration from path once per process.
func Load(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read engine config: %w", err)
			return
		}
		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// Parse decodes a configuration on top of the defaults.
func Parse(data []byte) (EngineConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return EngineConfig{}, fmt.Errorf("failed to unmarshal engine config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return c, nil
}

// Get returns the loaded configuration, or the defaults before Load.
func Get() EngineConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// Validate rejects settings the match loop cannot run with.
func (c EngineConfig) Validate() error {
	switch {
	case c.TurnDurationSeconds <= 0:
		return fmt.Errorf("turn_duration_seconds must be positive, got %d", c.TurnDurationSeconds)
	case c.BotMinDelaySeconds < 0 || c.BotMaxDelaySeconds < c.BotMinDelaySeconds:
		return fmt.Errorf("bot delay range [%d,%d] is invalid", c.BotMinDelaySeconds, c.BotMaxDelaySeconds)
	case c.AI.DesperateProgress < 0 || c.AI.DesperateProgress > 1:
		return fmt.Errorf("ai.desperate_progress must be within [0,1], got %v", c.AI.DesperateProgress)
	}
	return nil
}

// WithEnv applies runtime environment overrides such as
// tractor_bots_enabled. Malformed values are reported and skipped.
func (c EngineConfig) WithEnv(env map[string]string) (EngineConfig, []error) {
	var errs []error
	intVar := func(key string, dst *int) {
		raw, ok := env[key]
		if !ok || strings.TrimSpace(raw) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	if raw, ok := env["tractor_bots_enabled"]; ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("tractor_bots_enabled: %w", err))
		} else {
			c.BotsEnabled = enabled
		}
	}
	intVar("tractor_bot_min_delay_sec", &c.BotMinDelaySeconds)
	intVar("tractor_bot_max_delay_sec", &c.BotMaxDelaySeconds)
	intVar("tractor_bot_autofill_delay_sec", &c.BotAutoFillDelaySeconds)
	intVar("tractor_turn_duration_sec", &c.TurnDurationSeconds)
	if level := strings.TrimSpace(env["tractor_default_bot_level"]); level != "" {
		c.DefaultBotLevel = level
	}
	if v := strings.TrimSpace(env["tractor_app_version"]); v != "" {
		c.AppVersion = v
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds
	}
	return c, errs
}
