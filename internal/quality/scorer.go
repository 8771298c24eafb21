package quality

import (
	"math"

	"github.com/konivrer/ranked/internal/tier"
)

// Score rates how suitable two players are as a pairing, in [0,1]. The
// function is pure and symmetric in its two snapshots. Terms with zero
// weight are excluded from the weighted mean; if every weight is zero the
// score is 0, never NaN.
func Score(a, b PlayerSnapshot, w Weights) float64 {
	var sum, weightSum float64

	if w.Skill > 0 {
		sum += w.Skill * skillTerm(a.Rating, b.Rating)
		weightSum += w.Skill
	}
	if w.Confidence > 0 {
		sum += w.Confidence * confidenceTerm(a.Band, b.Band, w.PreferVariedBands)
		weightSum += w.Confidence
	}
	if w.Archetype > 0 {
		sum += w.Archetype * archetypeTerm(a.Archetype, b.Archetype)
		weightSum += w.Archetype
	}
	if w.Playstyle > 0 {
		sum += w.Playstyle * playstyleTerm(a.Playstyle, b.Playstyle, w.PreferComplementary)
		weightSum += w.Playstyle
	}

	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// skillTerm decays linearly from 1 at equal rating to 0 at skillSpread.
func skillTerm(ra, rb float64) float64 {
	return math.Max(0, 1-math.Abs(ra-rb)/skillSpread)
}

// confidenceTerm maps the ordinal band distance into [0,1].
func confidenceTerm(ba, bb tier.Band, preferVaried bool) float64 {
	maxDistance := float64(tier.BandProven - tier.BandUncertain)
	distance := math.Abs(float64(ba) - float64(bb))
	if preferVaried {
		return distance / maxDistance
	}
	return 1 - distance/maxDistance
}

// archetypeTerm penalizes mirror matches; missing archetypes are neutral.
func archetypeTerm(aa, ab *string) float64 {
	if aa == nil || ab == nil {
		return neutralScore
	}
	if *aa == *ab {
		return sameArchetypeScore
	}
	return differentArchetypeScore
}

// playstyleTerm is cosine similarity mapped into [0,1]; absent or
// mismatched vectors are neutral.
func playstyleTerm(va, vb []float64, preferComplementary bool) float64 {
	if len(va) == 0 || len(vb) == 0 || len(va) != len(vb) {
		return neutralScore
	}

	var dot, normA, normB float64
	for i := range va {
		dot += va[i] * vb[i]
		normA += va[i] * va[i]
		normB += vb[i] * vb[i]
	}
	if normA == 0 || normB == 0 {
		return neutralScore
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	similarity := (cos + 1) / 2
	if preferComplementary {
		return 1 - similarity
	}
	return similarity
}
