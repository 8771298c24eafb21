package quality

import "github.com/konivrer/ranked/internal/tier"

// PlayerSnapshot is the immutable slice of a player the scorer consumes.
// It is built once at enqueue time so scoring stays pure and repeatable.
type PlayerSnapshot struct {
	PlayerID  string    `json:"player_id"`
	Rating    float64   `json:"rating"`
	Band      tier.Band `json:"band"`
	Archetype *string   `json:"archetype,omitempty"`
	Playstyle []float64 `json:"playstyle,omitempty"`
}

// Weights configures the scorer. A weight of zero disables its term
// entirely: it drops out of both the numerator and the normalizer, so the
// remaining terms keep their full influence.
type Weights struct {
	Skill      float64 `json:"skill"`
	Confidence float64 `json:"confidence"`
	Archetype  float64 `json:"archetype"`
	Playstyle  float64 `json:"playstyle"`

	// PreferVariedBands scores distant confidence bands higher instead of
	// similar ones.
	PreferVariedBands bool `json:"prefer_varied_bands,omitempty"`
	// PreferComplementary inverts the playstyle similarity so opposed
	// styles pair up.
	PreferComplementary bool `json:"prefer_complementary,omitempty"`
}

// DefaultWeights mirror the original matchmaking configuration: skill
// dominates, confidence and playstyle temper it, archetype variety nudges.
func DefaultWeights() Weights {
	return Weights{
		Skill:      0.5,
		Confidence: 0.3,
		Archetype:  0.1,
		Playstyle:  0.2,
	}
}

const (
	// skillSpread is the rating gap at which the skill term reaches zero.
	skillSpread = 400.0

	// Same-archetype mirrors are usually stale games, so an exact match
	// scores below a differing one.
	sameArchetypeScore      = 0.3
	differentArchetypeScore = 0.7

	// neutralScore is used whenever a feature is absent on either side.
	neutralScore = 0.5
)
