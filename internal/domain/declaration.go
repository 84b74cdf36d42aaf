package domain

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrMalformedDeclaration = errors.New("malformed declaration")
	ErrCannotOverride       = errors.New("declaration does not override the current one")
	ErrDeclarationClosed    = errors.New("declaration phase is closed")
)

// DeclarationType orders declaration strength from weakest to strongest.
type DeclarationType int

const (
	DeclarationSingle DeclarationType = iota + 1
	DeclarationPair
	DeclarationSmallJokerPair
	DeclarationBigJokerPair
)

func (t DeclarationType) String() string {
	switch t {
	case DeclarationSingle:
		return "single"
	case DeclarationPair:
		return "pair"
	case DeclarationSmallJokerPair:
		return "small_joker_pair"
	case DeclarationBigJokerPair:
		return "big_joker_pair"
	}
	return "unknown"
}

// Strength is the numeric override rank of t.
func (t DeclarationType) Strength() int { return int(t) }

// Declaration is a bid to fix the trump suit.
type Declaration struct {
	PlayerID string
	Rank     Rank
	Suit     Suit
	Type     DeclarationType
	Cards    []Card
}

// NewDeclaration infers the declaration shape from the cards shown.
func NewDeclaration(playerID string, cards []Card, trumpRank Rank) (Declaration, error) {
	d := Declaration{PlayerID: playerID, Rank: trumpRank, Cards: slices.Clone(cards)}
	switch {
	case len(cards) == 1:
		d.Type, d.Suit = DeclarationSingle, cards[0].Suit
	case len(cards) == 2 && SameFace(cards[0], cards[1]) && cards[0].Rank == SmallJoker:
		d.Type = DeclarationSmallJokerPair
	case len(cards) == 2 && SameFace(cards[0], cards[1]) && cards[0].Rank == BigJoker:
		d.Type = DeclarationBigJokerPair
	case len(cards) == 2 && SameFace(cards[0], cards[1]):
		d.Type, d.Suit = DeclarationPair, cards[0].Suit
	default:
		return Declaration{}, fmt.Errorf("%w: %s", ErrMalformedDeclaration, FormatCards(cards))
	}
	return d, d.Validate(trumpRank)
}

// Validate checks that the cards shown support the claimed shape.
func (d Declaration) Validate(trumpRank Rank) error {
	malformed := func(why string) error {
		return fmt.Errorf("%w: %s %s: %s", ErrMalformedDeclaration, d.Type, FormatCards(d.Cards), why)
	}
	if d.Rank != trumpRank {
		return malformed("wrong trump rank")
	}
	switch d.Type {
	case DeclarationSingle:
		if len(d.Cards) != 1 {
			return malformed("needs one card")
		}
	case DeclarationPair, DeclarationSmallJokerPair, DeclarationBigJokerPair:
		if len(d.Cards) != 2 || !SameFace(d.Cards[0], d.Cards[1]) {
			return malformed("needs two identical cards")
		}
	default:
		return malformed("unknown type")
	}

	switch d.Type {
	case DeclarationSmallJokerPair, DeclarationBigJokerPair:
		want := SmallJoker
		if d.Type == DeclarationBigJokerPair {
			want = BigJoker
		}
		if d.Cards[0].Rank != want {
			return malformed("needs jokers")
		}
		if d.Suit != SuitNone {
			return malformed("joker declarations carry no suit")
		}
	default:
		c := d.Cards[0]
		if c.Rank != trumpRank || c.IsJoker() {
			return malformed("needs the trump rank")
		}
		if c.Suit != d.Suit || d.Suit == SuitNone {
			return malformed("suit does not match the cards")
		}
	}
	return nil
}

// CanOverride reports whether candidate may replace current. Any well-formed
// declaration opens the bidding. Otherwise the candidate must be strictly
// stronger, and a player reinforcing their own bid must keep its suit.
func CanOverride(current *Declaration, candidate Declaration) bool {
	if current == nil {
		return true
	}
	if candidate.Type.Strength() <= current.Type.Strength() {
		return false
	}
	if candidate.PlayerID == current.PlayerID && candidate.Suit != current.Suit {
		return false
	}
	return true
}

// DeclarationState tracks bidding for one round.
type DeclarationState struct {
	TrumpRank Rank
	Current   *Declaration
	History   []Declaration
	Finalized bool
}

// NewDeclarationState opens bidding for trumpRank.
func NewDeclarationState(trumpRank Rank) *DeclarationState {
	return &DeclarationState{TrumpRank: trumpRank}
}

// Declare validates the candidate's shape, then accepts it if it overrides
// the standing declaration.
func (s *DeclarationState) Declare(candidate Declaration) error {
	if s.Finalized {
		return ErrDeclarationClosed
	}
	if err := candidate.Validate(s.TrumpRank); err != nil {
		return err
	}
	if !CanOverride(s.Current, candidate) {
		return fmt.Errorf("%w: %s by %s", ErrCannotOverride, candidate.Type, candidate.PlayerID)
	}
	accepted := candidate
	accepted.Cards = slices.Clone(candidate.Cards)
	s.Current = &accepted
	s.History = append(s.History, accepted)
	return nil
}

// Finalize closes bidding and returns the trump for the round. Joker pairs and
// an empty bidding leave no trump suit.
func (s *DeclarationState) Finalize() (TrumpInfo, error) {
	if s.Finalized {
		return TrumpInfo{}, ErrDeclarationClosed
	}
	s.Finalized = true
	info := TrumpInfo{TrumpRank: s.TrumpRank}
	if s.Current != nil {
		switch s.Current.Type {
		case DeclarationSingle, DeclarationPair:
			info.TrumpSuit = s.Current.Suit
		}
	}
	return info, nil
}
