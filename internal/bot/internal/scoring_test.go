package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tractor/internal/domain"
)

var heartsTwo = domain.TrumpInfo{TrumpRank: domain.Two, TrumpSuit: domain.Hearts}

func TestConservationValueOrder(t *testing.T) {
	order := domain.MustParseCards("3S AS 3H AH 2S 2H SJ BJ")
	for i := 1; i < len(order); i++ {
		assert.Less(t, ConservationValue(order[i-1], heartsTwo), ConservationValue(order[i], heartsTwo),
			"%s should be cheaper than %s", order[i-1], order[i])
	}

	noTrumpSuit := domain.TrumpInfo{TrumpRank: domain.Two}
	assert.Equal(t, conserveOffSuitRank, ConservationValue(domain.MustParseCards("2H")[0], noTrumpSuit))
	assert.Equal(t, 3+14, CardsConservation(domain.MustParseCards("3S AS"), heartsTwo))
}

func TestDetectPhase(t *testing.T) {
	tests := []struct {
		name  string
		leads []int // cards led per closed trick
		want  GamePhase
	}{
		{name: "first trick", leads: nil, want: PhaseOpening},
		{name: "four singles", leads: []int{1, 1, 1, 1}, want: PhaseOpening},
		{name: "pairs leave the opening early", leads: []int{2, 2, 1}, want: PhaseMid},
		{name: "middle", leads: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, want: PhaseMid},
		{name: "tractors reach the end in few tricks", leads: []int{4, 4, 4, 4, 3}, want: PhaseEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &domain.Game{}
			for _, n := range tt.leads {
				g.Tricks = append(g.Tricks, domain.Trick{Plays: []domain.Play{{Cards: make([]domain.Card, n)}}})
			}
			assert.Equal(t, tt.want, DetectPhase(g))
		})
	}
	assert.Equal(t, PhaseMid, DetectPhase(nil))
}

func TestTuningForPhase(t *testing.T) {
	tuning := BotTuning{
		Opening: PhaseWeights{ProbeMaxSuitLength: 3},
		Mid:     PhaseWeights{ProbeMaxSuitLength: 2},
		End:     PhaseWeights{ProbeMaxSuitLength: 1},
	}
	assert.Equal(t, 3, tuning.ForPhase(PhaseOpening).ProbeMaxSuitLength)
	assert.Equal(t, 2, tuning.ForPhase(PhaseMid).ProbeMaxSuitLength)
	assert.Equal(t, 1, tuning.ForPhase(PhaseEnd).ProbeMaxSuitLength)
}
