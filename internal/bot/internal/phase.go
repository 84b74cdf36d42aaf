package internal

import "tractor/internal/domain"

// GamePhase describes the current strategic stage of a round.
type GamePhase int

const (
	// PhaseOpening covers the first tricks while hands are still full.
	PhaseOpening GamePhase = iota
	// PhaseMid is everything between opening and end.
	PhaseMid
	// PhaseEnd covers the last tricks, when the kitty bonus is close.
	PhaseEnd
)

// Phase boundaries in cards played per seat.
const (
	openingCards = 5
	endCards     = 6
)

func (p GamePhase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseEnd:
		return "end"
	}
	return "mid"
}

// DetectPhase infers the phase from how much of each hand has been played.
func DetectPhase(game *domain.Game) GamePhase {
	if game == nil {
		return PhaseMid
	}
	played := domain.CardsPlayedPerSeat(game.Tricks)
	switch {
	case played < openingCards:
		return PhaseOpening
	case domain.HandSize-played <= endCards:
		return PhaseEnd
	}
	return PhaseMid
}
