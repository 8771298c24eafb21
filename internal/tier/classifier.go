package tier

import (
	"math"

	"github.com/konivrer/ranked/internal/rating"
)

// Cutoffs are conservative-rating lower bounds per tier. The top tier is
// additionally ranked by leaderboard position, which is presentation
// concern; classification itself only needs the cutoff.
var tierCutoffs = [...]float64{
	Bronze:      0,
	Silver:      1200,
	Gold:        1400,
	Platinum:    1600,
	Diamond:     1800,
	Master:      2000,
	Grandmaster: 2200,
	Mythic:      2400,
}

// Confidence band thresholds. A band requires BOTH enough matches played
// AND uncertainty at or below its ceiling; a stale low-variance account
// cannot climb bands on match count alone.
var bandMatchFloors = [...]int{
	BandUncertain:   0,
	BandDeveloping:  10,
	BandEstablished: 30,
	BandProven:      75,
}

var bandUncertaintyCeilings = [...]float64{
	BandUncertain:   math.Inf(1),
	BandDeveloping:  300,
	BandEstablished: 150,
	BandProven:      100,
}

// Classify maps a rating record to its display placement. Pure and
// deterministic: identical records always classify identically.
func Classify(rec rating.RatingRecord) Placement {
	t := tierFor(rec.ConservativeRating)
	d := divisionFor(rec.ConservativeRating, t)
	b := bandFor(rec.MatchesPlayed, rec.Uncertainty)

	p := Placement{
		Tier:         t,
		TierName:     t.String(),
		Division:     d,
		DivisionName: d.String(),
		Band:         b,
		BandName:     b.String(),
	}
	p.ProgressPercent = progressFor(rec, t, b)
	return p
}

func tierFor(conservative float64) Tier {
	t := Bronze
	for candidate := Silver; candidate <= Mythic; candidate++ {
		if conservative >= tierCutoffs[candidate] {
			t = candidate
		}
	}
	return t
}

func divisionFor(conservative float64, t Tier) Division {
	if t == Mythic {
		return DivisionNone
	}
	lo, hi := tierBounds(t)
	span := (hi - lo) / 3
	pos := math.Max(0, math.Min(conservative-lo, hi-lo))
	switch {
	case pos >= 2*span:
		return DivisionI
	case pos >= span:
		return DivisionII
	default:
		return DivisionIII
	}
}

func bandFor(matchesPlayed int, uncertainty float64) Band {
	b := BandUncertain
	for candidate := BandDeveloping; candidate <= BandProven; candidate++ {
		if matchesPlayed >= bandMatchFloors[candidate] && uncertainty <= bandUncertaintyCeilings[candidate] {
			b = candidate
		} else {
			break
		}
	}
	return b
}

// progressFor reports progress toward the next division/tier boundary or
// the next confidence band, whichever constraint binds (is furthest away).
func progressFor(rec rating.RatingRecord, t Tier, b Band) float64 {
	tp := tierProgress(rec.ConservativeRating, t)
	bp := bandProgress(rec.MatchesPlayed, rec.Uncertainty, b)
	return math.Round(math.Min(tp, bp)*100*10) / 10
}

func tierProgress(conservative float64, t Tier) float64 {
	if t == Mythic {
		return 1
	}
	lo, hi := tierBounds(t)
	span := (hi - lo) / 3
	pos := math.Max(0, math.Min(conservative-lo, hi-lo))
	// Progress within the current division segment.
	return math.Mod(pos, span) / span
}

func bandProgress(matchesPlayed int, uncertainty float64, b Band) float64 {
	if b == BandProven {
		return 1
	}
	next := b + 1
	lo := bandMatchFloors[b]
	hi := bandMatchFloors[next]
	matchFrac := float64(matchesPlayed-lo) / float64(hi-lo)
	matchFrac = math.Max(0, math.Min(1, matchFrac))

	ceil := bandUncertaintyCeilings[next]
	start := 350.0
	uncFrac := 1.0
	if uncertainty > ceil {
		uncFrac = (start - uncertainty) / (start - ceil)
		uncFrac = math.Max(0, math.Min(1, uncFrac))
	}
	return math.Min(matchFrac, uncFrac)
}

func tierBounds(t Tier) (float64, float64) {
	lo := tierCutoffs[t]
	hi := tierCutoffs[Mythic]
	if t < Mythic {
		hi = tierCutoffs[t+1]
	}
	return lo, hi
}
