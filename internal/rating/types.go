package rating

import (
	"database/sql"
	"sync"
)

// Outcome is the reported result of a match between two players.
type Outcome string

const (
	OutcomeAWin Outcome = "A_WIN"
	OutcomeBWin Outcome = "B_WIN"
	OutcomeDraw Outcome = "DRAW"
)

// RatingRecord is the authoritative rating state for a single player.
// ConservativeRating is derived from Rating and Uncertainty and is
// recomputed on every update, never written independently.
type RatingRecord struct {
	PlayerID           string   `json:"player_id"`
	Name               string   `json:"name"`
	Rating             float64  `json:"rating"`
	Uncertainty        float64  `json:"uncertainty"`
	ConservativeRating float64  `json:"conservative_rating"`
	MatchesPlayed      int      `json:"matches_played"`
	Wins               int      `json:"wins"`
	Losses             int      `json:"losses"`
	Draws              int      `json:"draws"`
	CurrentStreak      int      `json:"current_streak"`
	SeasonPeakRating   float64  `json:"season_peak_rating"`
	LastPlayedAt       int64    `json:"last_played_at"`
	DeckArchetype      *string  `json:"deck_archetype,omitempty"`
	Playstyle          []float64 `json:"playstyle,omitempty"`
}

// MatchResult is the persisted history row for a recorded result.
type MatchResult struct {
	ID        string  `json:"id"`
	PlayerA   string  `json:"player_a"`
	PlayerB   string  `json:"player_b"`
	Outcome   Outcome `json:"outcome"`
	DeltaA    float64 `json:"delta_a"`
	DeltaB    float64 `json:"delta_b"`
	CreatedAt int64   `json:"created_at"`
}

// Config holds the tunable constants of the rating model. The values are
// defaults consistent with the eight-tier ladder, not mandates.
type Config struct {
	InitialRating      float64
	InitialUncertainty float64
	UncertaintyFloor   float64
	UncertaintyDecay   float64 // multiplicative, per match
	ConservativeK      float64 // conservative = rating - k*uncertainty
	Beta               float64 // skill gap scale for the expected score
	KMin               float64 // swing at the uncertainty floor
	KMax               float64 // swing at the uncertainty ceiling
	RatingFloor        float64
}

// DefaultConfig returns the standard 1500/350 model.
func DefaultConfig() Config {
	return Config{
		InitialRating:      1500,
		InitialUncertainty: 350,
		UncertaintyFloor:   50,
		UncertaintyDecay:   0.94,
		ConservativeK:      3,
		Beta:               200,
		KMin:               16,
		KMax:               64,
		RatingFloor:        0,
	}
}

// store handles all database operations for rating records.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
