// Package gamelog writes the per-game analysis log: one JSON record per game
// event, sequenced per game.
package gamelog

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a record.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event names written to the log.
const (
	EventGameInitialized      = "game_initialized"
	EventTrumpDeclared        = "trump_declared"
	EventTrumpFinalized       = "trump_finalized"
	EventAILeadingDecision    = "ai_leading_decision"
	EventAIFollowingDecision  = "ai_following_decision"
	EventTrickCompleted       = "trick_completed"
	EventKittyScored          = "kitty_scored"
	EventAttackingTeamVictory = "attacking_team_victory"
	EventDefendingTeamVictory = "defending_team_victory"
	EventGameOver             = "game_over"
)

// Record is one line of the log.
type Record struct {
	Timestamp      time.Time      `json:"timestamp"`
	Level          Level          `json:"level"`
	Event          string         `json:"event"`
	GameID         string         `json:"gameId"`
	SequenceNumber int            `json:"sequenceNumber"`
	AppVersion     string         `json:"appVersion"`
	Data           map[string]any `json:"data,omitempty"`
	Message        string         `json:"message,omitempty"`
}

// Recorder appends records as JSON lines. A nil *Recorder discards
// everything, so callers never need to check for one.
type Recorder struct {
	mu      sync.Mutex
	enc     *json.Encoder
	version string
	seq     map[string]int
	now     func() time.Time
}

// NewRecorder writes records for appVersion to w.
func NewRecorder(w io.Writer, appVersion string) *Recorder {
	return &Recorder{
		enc:     json.NewEncoder(w),
		version: appVersion,
		seq:     make(map[string]int),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewGameID returns a fresh game identifier.
func NewGameID() string { return uuid.NewString() }

// Record writes one event for gameID. Sequence numbers start at 1 and
// increase by one per record of the same game.
func (r *Recorder) Record(gameID string, level Level, event string, data map[string]any, message string) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq[gameID]++
	rec := Record{
		Timestamp:      r.now(),
		Level:          level,
		Event:          event,
		GameID:         gameID,
		SequenceNumber: r.seq[gameID],
		AppVersion:     r.version,
		Data:           data,
		Message:        message,
	}
	if err := r.enc.Encode(rec); err != nil {
		return fmt.Errorf("gamelog: write %s: %w", event, err)
	}
	return nil
}

// Info records an info-level event.
func (r *Recorder) Info(gameID, event string, data map[string]any, message string) error {
	return r.Record(gameID, LevelInfo, event, data, message)
}

// Close forgets the sequence counter of a finished game.
func (r *Recorder) Close(gameID string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.seq, gameID)
	r.mu.Unlock()
}

// ReadRecords decodes a JSON lines stream written by a Recorder.
func ReadRecords(rd io.Reader) ([]Record, error) {
	dec := json.NewDecoder(rd)
	var out []Record
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return out, fmt.Errorf("gamelog: decode record %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
