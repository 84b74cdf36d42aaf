package domain

// Beats reports whether challenger takes the trick from incumbent, the
// current winning combination, given the lead. A challenger must copy the
// lead's shape. Any trump play beats a non-trump play, trump plays compare by
// value, and non-trump plays only compete inside the leading suit. Ties
// never unseat the incumbent.
func Beats(challenger, incumbent, lead Combination, trump TrumpInfo) bool {
	if challenger.Type == Invalid || challenger.Type == Mixed || !challenger.SameShape(lead) {
		return false
	}
	switch {
	case challenger.Trump && !incumbent.Trump:
		return true
	case !challenger.Trump && incumbent.Trump:
		return false
	case challenger.Trump && incumbent.Trump:
		return challenger.Value > incumbent.Value
	}
	suit := leadingSuit(lead, trump)
	if challenger.Suit != suit || incumbent.Suit != suit {
		return false
	}
	return challenger.Value > incumbent.Value
}

// TrickEvaluation is the outcome of evaluating a proposed play against the
// trick in progress.
type TrickEvaluation struct {
	IsLegal  bool
	CanBeat  bool
	Reason   string
	Combo    Combination
	Validity error
}

// EvaluateTrickPlay validates proposed for playerHand and reports whether it
// would take the lead of trick. An empty trick treats proposed as a lead.
func EvaluateTrickPlay(proposed []Card, trick *Trick, trump TrumpInfo, playerHand []Card) TrickEvaluation {
	combo := ClassifyPlay(proposed, trump)
	res := TrickEvaluation{Combo: combo}

	if trick == nil || len(trick.Plays) == 0 {
		res.Validity = ValidateLead(proposed, playerHand, trump)
		res.IsLegal = res.Validity == nil
		res.CanBeat = res.IsLegal
		res.Reason = reasonFor(res, "leads the trick")
		return res
	}

	lead := trick.Lead()
	res.Validity = ValidatePlay(proposed, lead, playerHand, trump)
	res.IsLegal = res.Validity == nil
	if res.IsLegal {
		res.CanBeat = Beats(combo, trick.Winning().Combo, lead, trump)
	}
	if res.CanBeat {
		res.Reason = "beats the current winner"
	} else {
		res.Reason = reasonFor(res, "does not beat the current winner")
	}
	return res
}

func reasonFor(res TrickEvaluation, ok string) string {
	if res.Validity != nil {
		return res.Validity.Error()
	}
	return ok
}
