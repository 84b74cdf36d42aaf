package domain

import (
	"errors"
	"fmt"
)

// ValidationCode names the rule a rejected play broke.
type ValidationCode string

const (
	CodeWrongLength        ValidationCode = "wrong-length"
	CodeNotInHand          ValidationCode = "not-in-hand"
	CodeInvalidCombination ValidationCode = "invalid-combination"
	CodeMustFollowSuit     ValidationCode = "must-follow-suit"
	CodeMustMatchType      ValidationCode = "must-match-type"
	CodeMustExhaustSuit    ValidationCode = "must-exhaust-suit"
)

// ValidationError reports why a play is illegal.
type ValidationError struct {
	Code   ValidationCode
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "illegal play: " + string(e.Code)
	}
	return fmt.Sprintf("illegal play: %s: %s", e.Code, e.Detail)
}

// Is matches any ValidationError carrying the same code, so callers can use
// errors.Is with the sentinels below.
func (e *ValidationError) Is(target error) bool {
	var other *ValidationError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

var (
	ErrWrongLength        = &ValidationError{Code: CodeWrongLength}
	ErrNotInHand          = &ValidationError{Code: CodeNotInHand}
	ErrInvalidCombination = &ValidationError{Code: CodeInvalidCombination}
	ErrMustFollowSuit     = &ValidationError{Code: CodeMustFollowSuit}
	ErrMustMatchType      = &ValidationError{Code: CodeMustMatchType}
	ErrMustExhaustSuit    = &ValidationError{Code: CodeMustExhaustSuit}
)

func invalid(code ValidationCode, format string, args ...any) error {
	return &ValidationError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the validation code from err, or "" when err is not a
// ValidationError.
func CodeOf(err error) ValidationCode {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// ValidateLead checks that cards form a single leadable combination held in hand.
func ValidateLead(cards []Card, hand []Card, trump TrumpInfo) error {
	if len(cards) == 0 {
		return invalid(CodeWrongLength, "lead is empty")
	}
	if !ContainsAll(hand, cards) {
		return invalid(CodeNotInHand, "%s", FormatCards(cards))
	}
	switch ClassifyPlay(cards, trump).Type {
	case Single, Pair, Tractor:
		return nil
	}
	return invalid(CodeInvalidCombination, "%s is not a single, pair or tractor", FormatCards(cards))
}

// ValidatePlay checks a follower's cards against the lead.
//
// A legal follow always has the lead's length and contains exactly
// min(held, required) cards of the leading suit. When a compatible combination
// exists in the suit the play must also be one.
func ValidatePlay(proposed []Card, lead Combination, hand []Card, trump TrumpInfo) error {
	if len(proposed) != len(lead.Cards) {
		return invalid(CodeWrongLength, "played %d cards, lead has %d", len(proposed), len(lead.Cards))
	}
	if !ContainsAll(hand, proposed) {
		return invalid(CodeNotInHand, "%s", FormatCards(proposed))
	}

	av := AnalyzeAvailability(lead, hand, trump)
	inSuit := 0
	for _, c := range proposed {
		if trump.EffectiveSuit(c) == av.LeadingSuit {
			inSuit++
		}
	}

	switch av.Scenario {
	case ScenarioVoid:
		return nil
	case ScenarioInsufficient:
		if inSuit != av.AvailableCount {
			return invalid(CodeMustExhaustSuit, "played %d of %d suit cards", inSuit, av.AvailableCount)
		}
		return nil
	case ScenarioEnoughRemaining:
		if inSuit != len(proposed) {
			return invalid(CodeMustFollowSuit, "%d cards outside the leading suit", len(proposed)-inSuit)
		}
		return nil
	}

	if inSuit != len(proposed) {
		return invalid(CodeMustFollowSuit, "%d cards outside the leading suit", len(proposed)-inSuit)
	}
	if lead.Type == Single {
		return nil
	}
	played := ClassifyPlay(proposed, trump)
	if !played.Type.Satisfies(lead.Type) || played.Pairs != lead.Pairs {
		return invalid(CodeMustMatchType, "a %s is required", lead.Type)
	}
	return nil
}

// IsValidPlay is the boolean form of ValidatePlay.
func IsValidPlay(proposed []Card, lead Combination, hand []Card, trump TrumpInfo) bool {
	return ValidatePlay(proposed, lead, hand, trump) == nil
}
