package domain

// Table and scoring constants for a four-player double-deck round.
const (
	NumSeats   = 4
	DeckCopies = 2
	DeckSize   = 108
	HandSize   = 25
	KittySize  = 8

	// TotalDeckPoints is the scoring value of the whole deck.
	TotalDeckPoints = 200
	// AttackerWinThreshold is the score the attacking team needs to win.
	AttackerWinThreshold = 80
	// KittyMultiplier applies to kitty points taken by the attackers on the last trick.
	KittyMultiplier = 2
)
