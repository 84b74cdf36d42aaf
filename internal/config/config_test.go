package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte(`{"turn_duration_seconds": 30, "ai": {"desperate_deficit": 50}}`))
	require.NoError(t, err)

	assert.Equal(t, 30, c.TurnDurationSeconds)
	assert.Equal(t, 50, c.AI.DesperateDeficit)
	assert.Equal(t, Default().BotAutoFillDelaySeconds, c.BotAutoFillDelaySeconds)
	assert.Equal(t, "standard", c.DefaultBotLevel)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad json", data: `{`},
		{name: "zero turn", data: `{"turn_duration_seconds": 0}`},
		{name: "inverted delays", data: `{"bot_min_delay_seconds": 5, "bot_max_delay_seconds": 1}`},
		{name: "progress out of range", data: `{"ai": {"desperate_progress": 1.5}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestWithEnv(t *testing.T) {
	c, errs := Default().WithEnv(map[string]string{
		"tractor_bots_enabled":      "false",
		"tractor_bot_min_delay_sec": "4",
		"tractor_bot_max_delay_sec": "2",
		"tractor_default_bot_level": "expert",
		"tractor_turn_duration_sec": "soon",
	})

	require.Len(t, errs, 1)
	assert.False(t, c.BotsEnabled)
	assert.Equal(t, 4, c.BotMinDelaySeconds)
	assert.Equal(t, 4, c.BotMaxDelaySeconds)
	assert.Equal(t, "expert", c.DefaultBotLevel)
	assert.Equal(t, Default().TurnDurationSeconds, c.TurnDurationSeconds)
}

func TestLoadOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app_version": "9.9.9"}`), 0o600))

	require.NoError(t, Load(path))
	assert.Equal(t, "9.9.9", Get().AppVersion)

	// Later calls reuse the first result.
	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.json")))
	assert.Equal(t, "9.9.9", Get().AppVersion)
}
