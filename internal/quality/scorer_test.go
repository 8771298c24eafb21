package quality

import (
	"math"
	"testing"

	"github.com/konivrer/ranked/internal/tier"
	"github.com/stretchr/testify/assert"
)

func snapshot(rating float64, band tier.Band, archetype string, playstyle []float64) PlayerSnapshot {
	s := PlayerSnapshot{PlayerID: "p", Rating: rating, Band: band, Playstyle: playstyle}
	if archetype != "" {
		s.Archetype = &archetype
	}
	return s
}

func TestScore_Symmetric(t *testing.T) {
	a := snapshot(1500, tier.BandEstablished, "aggro", []float64{0.9, 0.2, 0.1})
	b := snapshot(1620, tier.BandUncertain, "control", []float64{0.1, 0.8, 0.5})
	w := DefaultWeights()

	assert.Equal(t, Score(a, b, w), Score(b, a, w))
}

func TestScore_AllWeightsZero(t *testing.T) {
	a := snapshot(1500, tier.BandProven, "aggro", nil)
	b := snapshot(1500, tier.BandProven, "aggro", nil)

	got := Score(a, b, Weights{})
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsNaN(got))
}

func TestScore_InUnitInterval(t *testing.T) {
	a := snapshot(900, tier.BandUncertain, "combo", []float64{1, 0, 0})
	b := snapshot(2600, tier.BandProven, "combo", []float64{-1, 0, 0})
	w := DefaultWeights()

	got := Score(a, b, w)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestSkillTerm(t *testing.T) {
	assert.Equal(t, 1.0, skillTerm(1500, 1500))
	assert.InDelta(t, 0.5, skillTerm(1500, 1700), 1e-9)
	assert.Equal(t, 0.0, skillTerm(1500, 1900))
	assert.Equal(t, 0.0, skillTerm(1500, 2500), "clamped past the spread")
}

func TestConfidenceTerm(t *testing.T) {
	assert.Equal(t, 1.0, confidenceTerm(tier.BandProven, tier.BandProven, false))
	assert.Equal(t, 0.0, confidenceTerm(tier.BandUncertain, tier.BandProven, false))
	assert.InDelta(t, 2.0/3, confidenceTerm(tier.BandDeveloping, tier.BandEstablished, false), 1e-9)

	// Prefer-varied inverts the direction.
	assert.Equal(t, 1.0, confidenceTerm(tier.BandUncertain, tier.BandProven, true))
	assert.Equal(t, 0.0, confidenceTerm(tier.BandProven, tier.BandProven, true))
}

func TestArchetypeTerm(t *testing.T) {
	aggro, control := "aggro", "control"
	assert.Equal(t, 0.3, archetypeTerm(&aggro, &aggro), "mirror match is a worse pairing")
	assert.Equal(t, 0.7, archetypeTerm(&aggro, &control))
	assert.Equal(t, 0.5, archetypeTerm(nil, &control), "missing archetype is neutral")
	assert.Equal(t, 0.5, archetypeTerm(nil, nil))
}

func TestPlaystyleTerm(t *testing.T) {
	same := []float64{0.5, 0.5, 0}
	opposite := []float64{-0.5, -0.5, 0}

	assert.InDelta(t, 1.0, playstyleTerm(same, same, false), 1e-9)
	assert.InDelta(t, 0.0, playstyleTerm(same, opposite, false), 1e-9)
	assert.InDelta(t, 1.0, playstyleTerm(same, opposite, true), 1e-9, "complementary preference inverts")

	assert.Equal(t, 0.5, playstyleTerm(nil, same, false), "absent vector is neutral")
	assert.Equal(t, 0.5, playstyleTerm(same, []float64{1}, false), "length mismatch is neutral")
	assert.Equal(t, 0.5, playstyleTerm([]float64{0, 0}, []float64{1, 1}, false), "zero vector is neutral")
}

func TestScore_DisabledTermDoesNotDilute(t *testing.T) {
	a := snapshot(1500, tier.BandProven, "", nil)
	b := snapshot(1500, tier.BandProven, "", nil)

	// Only the skill term is active; a perfect skill match must score 1.0
	// regardless of the other features being absent.
	got := Score(a, b, Weights{Skill: 0.5})
	assert.Equal(t, 1.0, got)
}

func TestScore_Deterministic(t *testing.T) {
	a := snapshot(1480, tier.BandDeveloping, "midrange", []float64{0.2, 0.9})
	b := snapshot(1530, tier.BandEstablished, "tempo", []float64{0.7, 0.3})
	w := DefaultWeights()

	first := Score(a, b, w)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(a, b, w))
	}
}
