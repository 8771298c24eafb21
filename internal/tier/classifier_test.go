package tier

import (
	"testing"

	"github.com/konivrer/ranked/internal/rating"
	"github.com/stretchr/testify/assert"
)

func record(conservative float64, matches int, uncertainty float64) rating.RatingRecord {
	return rating.RatingRecord{
		PlayerID:           "p",
		Rating:             conservative + 3*uncertainty,
		Uncertainty:        uncertainty,
		ConservativeRating: conservative,
		MatchesPlayed:      matches,
	}
}

func TestClassify_TierCutoffs(t *testing.T) {
	cases := []struct {
		name         string
		conservative float64
		want         Tier
	}{
		{"fresh player is bronze", 450, Bronze},
		{"just below silver", 1199.9, Bronze},
		{"silver floor", 1200, Silver},
		{"gold", 1450, Gold},
		{"platinum", 1600, Platinum},
		{"diamond", 1850, Diamond},
		{"master", 2000, Master},
		{"grandmaster", 2250, Grandmaster},
		{"mythic floor", 2400, Mythic},
		{"far beyond mythic", 3100, Mythic},
		{"negative conservative rating", -200, Bronze},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(record(tc.conservative, 50, 80))
			assert.Equal(t, tc.want, got.Tier)
			assert.Equal(t, tc.want.String(), got.TierName)
		})
	}
}

func TestClassify_Divisions(t *testing.T) {
	// Silver spans 1200-1400, thirds of ~66.7.
	assert.Equal(t, DivisionIII, Classify(record(1210, 50, 80)).Division)
	assert.Equal(t, DivisionII, Classify(record(1280, 50, 80)).Division)
	assert.Equal(t, DivisionI, Classify(record(1390, 50, 80)).Division)

	// Mythic is undivided.
	got := Classify(record(2500, 100, 60))
	assert.Equal(t, DivisionNone, got.Division)
	assert.Equal(t, "", got.DivisionName)
}

func TestClassify_BandsRequireBothConditions(t *testing.T) {
	// Matches alone are not enough while uncertainty stays high.
	got := Classify(record(1500, 100, 200))
	assert.Equal(t, BandDeveloping, got.Band, "uncertainty 200 caps the band at developing")

	// Uncertainty alone is not enough without the match count.
	got = Classify(record(1500, 20, 60))
	assert.Equal(t, BandDeveloping, got.Band, "20 matches caps the band at developing")

	// Both conditions met.
	got = Classify(record(1500, 100, 60))
	assert.Equal(t, BandProven, got.Band)

	// Brand-new player.
	got = Classify(record(450, 0, 350))
	assert.Equal(t, BandUncertain, got.Band)
}

func TestClassify_Deterministic(t *testing.T) {
	rec := record(1725, 42, 120)
	first := Classify(rec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(rec))
	}
}

func TestClassify_TierMonotonicInConservativeRating(t *testing.T) {
	prev := Bronze
	for cr := -500.0; cr <= 3000; cr += 7 {
		got := Classify(record(cr, 40, 100))
		assert.GreaterOrEqual(t, got.Tier, prev, "tier must never decrease as conservative rating rises")
		prev = got.Tier
	}
}

func TestClassify_ProgressBounds(t *testing.T) {
	for _, rec := range []rating.RatingRecord{
		record(450, 0, 350),
		record(1333, 25, 180),
		record(2399, 74, 101),
		record(2600, 200, 55),
	} {
		got := Classify(rec)
		assert.GreaterOrEqual(t, got.ProgressPercent, 0.0)
		assert.LessOrEqual(t, got.ProgressPercent, 100.0)
	}
}

func TestClassify_ProvenMythicFullProgress(t *testing.T) {
	got := Classify(record(2600, 200, 55))
	assert.Equal(t, 100.0, got.ProgressPercent)
}
