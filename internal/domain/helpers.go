package domain

// LowestAvailableSeat returns the lowest index of an empty seat, or -1 when
// the table is full.
func LowestAvailableSeat(seats *[NumSeats]string) int {
	for i, userID := range seats {
		if userID == "" {
			return i
		}
	}
	return -1
}

// LabelPayload is the match label advertised for matchmaking.
type LabelPayload struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Seats int    `json:"seats"`
}

// ComputeLabel derives the advertised label from seat occupancy and phase.
func ComputeLabel(seats *[NumSeats]string, phase Phase) LabelPayload {
	taken := 0
	for _, id := range seats {
		if id != "" {
			taken++
		}
	}
	return LabelPayload{
		Open:  phase == PhaseLobby && taken < NumSeats,
		Game:  "tractor",
		Phase: string(phase),
		Seats: taken,
	}
}
