package rating

import (
	"math"
	"time"
)

// Model applies match outcomes to rating records. It is pure: it mutates
// only the records it is handed and performs no I/O, which keeps the update
// step unit-testable independent of the store.
type Model struct {
	cfg Config
}

// NewModel creates a rating model with the given constants.
func NewModel(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// NewRecord returns the explicit default record for a freshly provisioned
// player. This is the only place defaults come from; the model itself
// refuses to invent records for unknown players.
func (m *Model) NewRecord(playerID, name string) *RatingRecord {
	rec := &RatingRecord{
		PlayerID:         playerID,
		Name:             name,
		Rating:           m.cfg.InitialRating,
		Uncertainty:      m.cfg.InitialUncertainty,
		SeasonPeakRating: m.cfg.InitialRating,
	}
	rec.ConservativeRating = m.conservative(rec)
	return rec
}

// RecordResult applies a single match outcome to both records in place.
// The expected score is a logistic in the rating gap scaled by the combined
// uncertainty, the swing scales linearly with each player's own
// uncertainty, and uncertainty decays toward its floor afterwards.
func (m *Model) RecordResult(a, b *RatingRecord, outcome Outcome) error {
	var scoreA float64
	switch outcome {
	case OutcomeAWin:
		scoreA = 1
	case OutcomeBWin:
		scoreA = 0
	case OutcomeDraw:
		scoreA = 0.5
	default:
		return ErrInvalidOutcome
	}

	c := math.Sqrt(2*m.cfg.Beta*m.cfg.Beta + a.Uncertainty*a.Uncertainty + b.Uncertainty*b.Uncertainty)
	expectedA := 1 / (1 + math.Exp((b.Rating-a.Rating)/c))

	deltaA := m.kFactor(a) * (scoreA - expectedA)
	deltaB := m.kFactor(b) * ((1 - scoreA) - (1 - expectedA))

	now := time.Now().Unix()
	m.apply(a, deltaA, scoreA, now)
	m.apply(b, deltaB, 1-scoreA, now)
	return nil
}

// ApplyInactivityDecay re-inflates uncertainty for a player who has not
// played for one or more full rating periods, capped at the initial
// ceiling. Rating is untouched. The caller decides what a period is and
// when to invoke this; v1 never calls it automatically.
func (m *Model) ApplyInactivityDecay(rec *RatingRecord, periods int) {
	for i := 0; i < periods; i++ {
		grown := rec.Uncertainty / m.cfg.UncertaintyDecay
		rec.Uncertainty = math.Min(grown, m.cfg.InitialUncertainty)
	}
	rec.ConservativeRating = m.conservative(rec)
}

func (m *Model) apply(rec *RatingRecord, delta, score float64, now int64) {
	rec.Rating = math.Max(m.cfg.RatingFloor, rec.Rating+delta)
	rec.Uncertainty = math.Max(m.cfg.UncertaintyFloor, rec.Uncertainty*m.cfg.UncertaintyDecay)
	rec.ConservativeRating = m.conservative(rec)
	rec.MatchesPlayed++
	rec.LastPlayedAt = now

	switch {
	case score == 1:
		rec.Wins++
		if rec.CurrentStreak > 0 {
			rec.CurrentStreak++
		} else {
			rec.CurrentStreak = 1
		}
	case score == 0:
		rec.Losses++
		if rec.CurrentStreak < 0 {
			rec.CurrentStreak--
		} else {
			rec.CurrentStreak = -1
		}
	default:
		rec.Draws++
		rec.CurrentStreak = 0
	}

	if rec.Rating > rec.SeasonPeakRating {
		rec.SeasonPeakRating = rec.Rating
	}
}

// kFactor interpolates between KMin at the uncertainty floor and KMax at
// the ceiling, so unproven players swing hard and veterans barely move.
func (m *Model) kFactor(rec *RatingRecord) float64 {
	span := m.cfg.InitialUncertainty - m.cfg.UncertaintyFloor
	if span <= 0 {
		return m.cfg.KMax
	}
	frac := (rec.Uncertainty - m.cfg.UncertaintyFloor) / span
	frac = math.Max(0, math.Min(1, frac))
	return m.cfg.KMin + (m.cfg.KMax-m.cfg.KMin)*frac
}

func (m *Model) conservative(rec *RatingRecord) float64 {
	return rec.Rating - m.cfg.ConservativeK*rec.Uncertainty
}
