package domain

// Phase represents the lifecycle stage of a Tractor round.
type Phase string

const (
	// PhaseLobby is the pre-round state where players can join.
	PhaseLobby Phase = "lobby"
	// PhaseDeclaring is the bidding window that fixes the trump suit.
	PhaseDeclaring Phase = "declaring"
	// PhasePlaying is the trick-taking part of the round.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state after the last trick has been scored.
	PhaseEnded Phase = "ended"
)

// Team is one of the two fixed partnerships. Seats 0 and 2 form TeamA,
// seats 1 and 3 form TeamB.
type Team int

const (
	TeamA Team = iota
	TeamB
)

func (t Team) String() string {
	if t == TeamA {
		return "A"
	}
	return "B"
}

// Other returns the opposing partnership.
func (t Team) Other() Team { return 1 - t }

// TeamForSeat maps a 0-based seat index to its partnership.
func TeamForSeat(seat int) Team { return Team(seat % 2) }

// PartnerSeat returns the seat across the table.
func PartnerSeat(seat int) int { return (seat + 2) % NumSeats }

// NextSeat returns the seat that acts after seat.
func NextSeat(seat int) int { return (seat + 1) % NumSeats }

// Player holds state for a participant in the round.
type Player struct {
	UserID string
	Seat   int // 0-based
	Team   Team
	Hand   []Card
	IsBot  bool
}
