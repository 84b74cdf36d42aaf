package domain

import (
	"errors"
	"slices"
)

// ErrTrickComplete is returned when a play is added to a trick that already
// holds one play per seat.
var ErrTrickComplete = errors.New("trick already complete")

// Play is one seat's contribution to a trick.
type Play struct {
	PlayerID string
	Cards    []Card
	Combo    Combination
	// TookLead is set when this play became the trick's winner at the time
	// it was made. The leader's play always takes the lead.
	TookLead bool
}

// Trick accumulates up to four plays. Once complete it is archived by value
// and never changed again.
type Trick struct {
	LeaderID string
	Plays    []Play
	WinnerID string
	Points   int
}

// NewTrick starts an empty trick led by leaderID.
func NewTrick(leaderID string) *Trick {
	return &Trick{LeaderID: leaderID, Plays: make([]Play, 0, NumSeats)}
}

// Complete reports whether every seat has played.
func (t *Trick) Complete() bool { return len(t.Plays) == NumSeats }

// Lead returns the leading combination, or an Invalid one for an empty trick.
func (t *Trick) Lead() Combination {
	if len(t.Plays) == 0 {
		return Combination{Type: Invalid}
	}
	return t.Plays[0].Combo
}

// Winning returns the current winning play.
func (t *Trick) Winning() Play {
	for _, p := range t.Plays {
		if p.PlayerID == t.WinnerID {
			return p
		}
	}
	return Play{}
}

// AddPlay appends a play and updates the winner. Legality is the caller's
// responsibility; AddPlay only compares strength.
func (t *Trick) AddPlay(playerID string, cards []Card, trump TrumpInfo) (Play, error) {
	if t.Complete() {
		return Play{}, ErrTrickComplete
	}
	play := Play{
		PlayerID: playerID,
		Cards:    slices.Clone(cards),
		Combo:    ClassifyPlay(cards, trump),
	}
	if len(t.Plays) == 0 {
		play.TookLead = true
	} else {
		play.TookLead = Beats(play.Combo, t.Winning().Combo, t.Lead(), trump)
	}
	if play.TookLead {
		t.WinnerID = playerID
	}
	t.Points += play.Combo.Points()
	t.Plays = append(t.Plays, play)
	return play, nil
}

// WinnerAfter returns the index of the play that was winning once play i had
// been made.
func (t *Trick) WinnerAfter(i int) int {
	winner := 0
	for j := 0; j <= i && j < len(t.Plays); j++ {
		if t.Plays[j].TookLead {
			winner = j
		}
	}
	return winner
}

// Cards returns every card played to the trick in play order.
func (t *Trick) Cards() []Card {
	var out []Card
	for _, p := range t.Plays {
		out = append(out, p.Cards...)
	}
	return out
}

// Snapshot returns a deep copy suitable for archiving.
func (t *Trick) Snapshot() Trick {
	out := *t
	out.Plays = make([]Play, len(t.Plays))
	for i, p := range t.Plays {
		p.Cards = slices.Clone(p.Cards)
		p.Combo.Cards = slices.Clone(p.Combo.Cards)
		out.Plays[i] = p
	}
	return out
}
