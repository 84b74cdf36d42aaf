package app

import (
	"tractor/internal/domain"
)

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined   EventKind = "player_joined"
	EventPlayerLeft     EventKind = "player_left"
	EventHandDealt      EventKind = "hand_dealt"
	EventRoundStarted   EventKind = "round_started"
	EventTrumpDeclared  EventKind = "trump_declared"
	EventTrumpFinalized EventKind = "trump_finalized"
	EventCardPlayed     EventKind = "card_played"
	EventTrickCompleted EventKind = "trick_completed"
	EventRoundEnded     EventKind = "round_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string
	Seat   int
	IsBot  bool
}

type PlayerLeftPayload struct {
	UserID string
	Seat   int
}

type HandDealtPayload struct {
	UserID string
	Hand   []domain.Card
}

type RoundStartedPayload struct {
	RoundID       string
	DealerSeat    int
	AttackingTeam domain.Team
	TrumpRank     domain.Rank
}

type TrumpDeclaredPayload struct {
	UserID string
	Type   domain.DeclarationType
	Suit   domain.Suit
	Cards  []domain.Card
}

type TrumpFinalizedPayload struct {
	TrumpInfo      domain.TrumpInfo
	DeclarerUserID string // empty when nobody declared
	LeaderUserID   string
}

type CardPlayedPayload struct {
	UserID         string
	Cards          []domain.Card
	Combo          domain.ComboType
	NextTurnUserID string // empty once the round has ended
}

type TrickCompletedPayload struct {
	TrickNumber     int
	WinnerUserID    string
	Points          int
	AttackingPoints int
}

type RoundEndedPayload struct {
	Result domain.RoundResult
	Kitty  []domain.Card
}
